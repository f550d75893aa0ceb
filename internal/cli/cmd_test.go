package cli

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/semplan/internal/catalog"
	"github.com/alexanderramin/semplan/internal/config"
	"github.com/alexanderramin/semplan/internal/fetcher"
	"github.com/alexanderramin/semplan/internal/planner"
	"github.com/alexanderramin/semplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testYears   = catalog.Years{2021, 2021, 2020}
	ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)
)

// syncBuffer is a bytes.Buffer safe for the watch command's goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return ansiPattern.ReplaceAllString(b.buf.String(), "")
}

type testEnv struct {
	app   *App
	src   *testutil.MapSource
	files map[string][]byte
}

// newTestEnv wires an App over the standard catalog and an in-memory DB.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	files := testutil.StandardCatalog().FilesWithMetadata(1000, testYears)
	src := testutil.NewMapSource(files)

	p, err := planner.New(context.Background(), testutil.NewTestDB(t), src)
	require.NoError(t, err)
	t.Cleanup(p.Close)

	cfg := config.DefaultConfig()
	cfg.PollInterval = 20 * time.Millisecond
	cfg.FilterDebounce = 10 * time.Millisecond

	return &testEnv{
		app: &App{
			Planner:       p,
			Config:        cfg,
			IsInteractive: func() bool { return false },
			Confirm: func(string, string) (bool, error) {
				t.Fatal("unexpected confirmation prompt")
				return false, nil
			},
		},
		src:   src,
		files: files,
	}
}

func (e *testEnv) exec(ctx context.Context, args ...string) (string, error) {
	root := NewRootCmd(e.app)
	buf := &syncBuffer{}
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return buf.String(), err
}

func (e *testEnv) run(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.exec(context.Background(), args...)
	require.NoError(t, err, out)
	return out
}

func TestReloadCmd(t *testing.T) {
	env := newTestEnv(t)

	out := env.run(t, "reload")

	assert.Contains(t, out, " 1/18 building.min.json")
	assert.Contains(t, out, "18/18 subject.min.json")
	assert.Contains(t, out, "CATALOG LOADED")
	assert.Contains(t, out, "spring 2021, summer 2021, fall 2020")
	require.NotNil(t, env.app.Planner.Store.Current())
}

func TestReloadCmd_Failure(t *testing.T) {
	env := newTestEnv(t)
	env.src.FailPath = "section.min.json"

	_, err := env.exec(context.Background(), "reload")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading catalog")
	assert.Nil(t, env.app.Planner.Store.Current())
}

func TestTermsCmd(t *testing.T) {
	env := newTestEnv(t)
	out := env.run(t, "terms")
	assert.Contains(t, out, "spring  2021")
	assert.Contains(t, out, "fall    2020")
}

func TestSubjectsCmd(t *testing.T) {
	env := newTestEnv(t)
	out := env.run(t, "subjects", "--term", "Fall")
	assert.Contains(t, out, "CSE Computer Science")
	assert.Contains(t, out, "MTH Mathematics")
	assert.Contains(t, out, "2010 Algorithms")

	out = env.run(t, "subjects", "--term", "spring")
	assert.NotContains(t, out, "CSE")
	assert.Contains(t, out, "1001 Calculus 1")
}

func TestSubjectsCmd_BadTerm(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.exec(context.Background(), "subjects", "--term", "winter")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown term")
}

func TestSectionsCmd_RequiresTerm(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.exec(context.Background(), "sections")
	assert.ErrorIs(t, err, errNoTerm)
}

func TestSectionsCmd_Filters(t *testing.T) {
	env := newTestEnv(t)

	out := env.run(t, "sections", "--term", "fall", "--subject", "cse")
	assert.Contains(t, out, "10001")
	assert.Contains(t, out, "10002")
	assert.Contains(t, out, "10003")
	assert.NotContains(t, out, "20001")
	assert.Contains(t, out, "3 sections")

	out = env.run(t, "sections", "--instructor", "lovelace")
	assert.Contains(t, out, "10002")
	assert.Contains(t, out, "1 section")

	out = env.run(t, "sections", "--title", "nothing like this")
	assert.Contains(t, out, "No sections match.")
}

func TestSectionsCmd_Open(t *testing.T) {
	env := newTestEnv(t)
	env.run(t, "select", "10001", "--term", "fall")

	out := env.run(t, "sections", "--open")
	assert.Contains(t, out, "10001")
	assert.Contains(t, out, "20001")
	assert.NotContains(t, out, "10002")
	assert.NotContains(t, out, "10003")
}

func TestSectionsCmd_Options(t *testing.T) {
	env := newTestEnv(t)

	out := env.run(t, "sections", "--options")
	assert.Contains(t, out, "FILTER OPTIONS")
	assert.Regexp(t, `--subject\s+CSE, MTH`, out)
	assert.Regexp(t, `--instructor\s+Ada Lovelace, Alan Turing`, out)
	_, ok := env.app.Planner.Selection.Term()
	assert.False(t, ok, "listing options needs no term")
}

func TestSelectCmd_Transitions(t *testing.T) {
	env := newTestEnv(t)

	out := env.run(t, "select", "10001", "--term", "fall")
	assert.Contains(t, out, "Added CSE 1001-01 Intro to Programming")

	out = env.run(t, "select", "20001")
	assert.Contains(t, out, "Added MTH 1001-01 Calculus 1")

	out = env.run(t, "select", "10001")
	assert.Contains(t, out, "Removed CSE 1001-01")

	assert.Equal(t, []int{20001}, crnsOf(env.app.Planner.Selection.Sections()))
}

func TestSelectCmd_Swap(t *testing.T) {
	env := newTestEnv(t)
	env.run(t, "select", "20001", "--term", "fall")
	env.run(t, "select", "10001")

	out := env.run(t, "select", "10002", "--yes")
	assert.Contains(t, out, "Swapped in CSE 1001-02")
	assert.Equal(t, []int{20001, 10002}, crnsOf(env.app.Planner.Selection.Sections()))
}

func TestSelectCmd_ConflictNeedsConfirmation(t *testing.T) {
	env := newTestEnv(t)
	env.run(t, "select", "10001", "--term", "fall")

	_, err := env.exec(context.Background(), "select", "10003")
	require.ErrorIs(t, err, ErrConfirmationRequired)
	assert.Contains(t, err.Error(), "overlaps CSE 1001-01")

	out := env.run(t, "select", "10003", "--yes")
	assert.Contains(t, out, "Added CSE 2010-01")
}

func TestSelectCmd_InteractiveConfirm(t *testing.T) {
	env := newTestEnv(t)
	env.run(t, "select", "10001", "--term", "fall")

	var prompts []string
	answer := false
	env.app.IsInteractive = func() bool { return true }
	env.app.Confirm = func(title, description string) (bool, error) {
		prompts = append(prompts, description)
		return answer, nil
	}

	out := env.run(t, "select", "10002")
	assert.Contains(t, out, "Cancelled.")
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "section is full (30/30)")
	assert.NotContains(t, prompts[0], "overlaps")
	assert.Equal(t, []int{10001}, crnsOf(env.app.Planner.Selection.Sections()))

	answer = true
	out = env.run(t, "select", "10002")
	assert.Contains(t, out, "Swapped in CSE 1001-02")
}

func TestSelectCmd_Errors(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.exec(context.Background(), "select", "abc", "--term", "fall")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid CRN")

	_, err = env.exec(context.Background(), "select", "30001", "--term", "fall")
	assert.ErrorIs(t, err, planner.ErrSectionNotFound)

	_, err = env.exec(context.Background(), "select")
	assert.Error(t, err)
}

func TestPlanCmd(t *testing.T) {
	env := newTestEnv(t)
	env.run(t, "select", "10001", "--term", "fall")
	env.run(t, "select", "20001")

	out := env.run(t, "plan")
	assert.Contains(t, out, "PLAN FOR FALL 2020")
	assert.Contains(t, out, "10001")
	assert.Contains(t, out, "20001")
	assert.Contains(t, out, "Credit hours: 6")
	assert.NotContains(t, out, "not shown")

	out = env.run(t, "plan", "--term", "spring")
	assert.Contains(t, out, "No sections selected.")
}

func TestHistoryCmd(t *testing.T) {
	env := newTestEnv(t)
	out := env.run(t, "history")
	assert.Contains(t, out, "No reloads recorded.")

	env.run(t, "reload")
	env.src.FailPath = "title.min.json"
	_, err := env.exec(context.Background(), "reload")
	require.Error(t, err)

	out = env.run(t, "history")
	assert.Contains(t, out, "✔ complete")
	assert.Contains(t, out, "✖ error")
	assert.Contains(t, out, "injected failure for title.min.json")
}

func TestWatchCmd_ReportsAndReloads(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	out, err := env.exec(ctx, "watch", "--reload")
	require.NoError(t, err)
	assert.Contains(t, out, "Watching for catalog updates every 20ms")
	assert.Contains(t, out, "Catalog update available:")
	assert.Contains(t, out, "Reloaded: 5 sections")
	assert.Equal(t, 1, strings.Count(out, "Catalog update available:"))
}

func TestWatchCmd_LiveFilter(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	updated := testutil.Metadata(env.files, 2000, testYears)
	timer := time.AfterFunc(100*time.Millisecond, func() {
		env.src.Set(fetcher.MetadataPath, updated)
	})
	defer timer.Stop()

	out, err := env.exec(ctx, "watch", "--reload", "--term", "fall", "--subject", "CSE")
	require.NoError(t, err)
	assert.Contains(t, out, "Catalog update available: published Jan 1, 1970 00:00 UTC")
	assert.Contains(t, out, "Reloaded: 5 sections")
	assert.GreaterOrEqual(t, strings.Count(out, "3 sections match in fall 2020"), 2)
}

func TestServeCmd_Years(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.exec(context.Background(), "serve", "--years", "2021,2021")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--years needs 3 values")
}

func TestServeCmd_StopsWithContext(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := env.exec(ctx, "serve", "--dir", t.TempDir(), "--addr", "127.0.0.1:0", "--years", "2021,2021,2020")
	require.NoError(t, err)
	assert.Contains(t, out, "/assets/data/")
}

func TestPlannerCommandsResumeStateFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// serve skips resuming, so a cancelled context only stops the server
	_, err := env.exec(ctx, "serve", "--dir", t.TempDir(), "--addr", "127.0.0.1:0", "--years", "2021,2021,2020")
	require.NoError(t, err)

	_, err = env.exec(ctx, "terms")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResumesSavedTerm(t *testing.T) {
	env := newTestEnv(t)
	env.run(t, "select", "10001", "--term", "fall")

	// a fresh root over the same planner mimics a second invocation
	out := env.run(t, "plan")
	assert.Contains(t, out, "PLAN FOR FALL 2020")
}

func crnsOf(sections []*catalog.Section) []int {
	out := make([]int, len(sections))
	for i, s := range sections {
		out[i] = s.CRN
	}
	return out
}

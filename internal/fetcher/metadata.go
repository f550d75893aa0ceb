package fetcher

import (
	"encoding/json"
	"fmt"

	"github.com/alexanderramin/semplan/internal/catalog"
)

// MetadataPath is fetched ahead of the catalog files and by the poller.
const MetadataPath = "metaData.min.json"

// Metadata describes the published catalog.
type Metadata struct {
	FileSizes map[string]int64 `json:"fileSizes"`
	Timestamp int64            `json:"timestamp"`
	Years     catalog.Years    `json:"years"`
}

// ParseMetadata decodes a metadata file.
func ParseMetadata(data []byte) (*Metadata, error) {
	var m Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoMetadata, err)
	}
	if m.FileSizes == nil {
		m.FileSizes = map[string]int64{}
	}
	return &m, nil
}

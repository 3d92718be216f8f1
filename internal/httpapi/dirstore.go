package httpapi

import (
	"os"
	"path/filepath"

	"github.com/hierarchytrix/solver/pkg/hierarchy"
	hierarchyio "github.com/hierarchytrix/solver/pkg/io"
)

// DirStore saves uploaded graphs as JSON files in dir, the same layout
// [orchestrate.NewDirSource] reads back from for solving.
type DirStore struct {
	dir string
}

// NewDirStore creates a DirStore rooted at dir, creating it if necessary.
func NewDirStore(dir string) (*DirStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &DirStore{dir: dir}, nil
}

func (s *DirStore) Save(id string, g *hierarchy.Graph) error {
	return hierarchyio.ExportJSON(g, filepath.Join(s.dir, id+".json"))
}

var _ Store = (*DirStore)(nil)

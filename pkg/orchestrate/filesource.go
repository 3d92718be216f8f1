package orchestrate

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/hierarchytrix/solver/pkg/errors"
	"github.com/hierarchytrix/solver/pkg/hierarchy"
	hierarchyio "github.com/hierarchytrix/solver/pkg/io"
)

// instanceIDPattern matches the allowed instance-id alphabet.
var instanceIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// DirSource resolves instance IDs to graphs stored as `{instanceID}.json`
// files under a directory, the CLI's instance storage model.
type DirSource struct {
	dir string
}

// NewDirSource creates an InstanceSource backed by dir.
func NewDirSource(dir string) *DirSource { return &DirSource{dir: dir} }

func (s *DirSource) Graph(ctx context.Context, instanceID string) (*hierarchy.Graph, error) {
	if !instanceIDPattern.MatchString(instanceID) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid instance id %q", instanceID)
	}
	path := filepath.Join(s.dir, instanceID+".json")
	g, err := hierarchyio.ImportJSON(path)
	if err != nil {
		return nil, fmt.Errorf("load instance %s: %w", instanceID, err)
	}
	return g, nil
}

var _ InstanceSource = (*DirSource)(nil)

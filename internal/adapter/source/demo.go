package source

import (
	"context"
	"embed"
	"path"

	"github.com/mmcdole/koepalette/internal/domain"
)

//go:embed demo/*.json
var demoFS embed.FS

// DemoSource serves the catalog embedded in the binary. It is used when no
// repository is configured.
type DemoSource struct{}

// NewDemoSource creates the demo source
func NewDemoSource() *DemoSource { return &DemoSource{} }

func (DemoSource) Fetch(ctx context.Context) (*domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	docs := make(map[string][]byte, len(domain.CatalogDocuments))
	for _, name := range domain.CatalogDocuments {
		data, err := demoFS.ReadFile(path.Join("demo", name))
		if err != nil {
			return nil, err
		}
		docs[name] = data
	}
	return domain.AssembleSnapshot(docs)
}

func (DemoSource) Invalidate() {}

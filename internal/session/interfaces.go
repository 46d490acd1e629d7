package session

import (
	"context"

	"github.com/Veraticus/bikeshare/internal/dataset"
	"github.com/Veraticus/bikeshare/internal/model"
)

// Prompter defines the contract for asking the user what to explore.
type Prompter interface {
	GetFilters(ctx context.Context) (model.Filter, error)
	Confirm(ctx context.Context, prompt, affirmative string) (bool, error)
}

// Browser defines the contract for paging through raw trips.
type Browser interface {
	Browse(ctx context.Context, trips *dataset.Table) (int, error)
}

// Loader defines the contract for loading a filtered trip table.
type Loader interface {
	Load(ctx context.Context, filter model.Filter) (*dataset.Table, error)
}

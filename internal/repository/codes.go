package repository

import (
	"context"
	"errors"
)

// CodeIndex answers short code lookups against a Store for the code generator.
type CodeIndex struct {
	store Store
}

func NewCodeIndex(store Store) *CodeIndex {
	return &CodeIndex{store: store}
}

func (i *CodeIndex) CodeExists(ctx context.Context, code string) (bool, error) {
	_, err := i.store.FindLinkByCode(ctx, code)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

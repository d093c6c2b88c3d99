package executor

import (
	"errors"

	"relcore/pkg/catalog"
	"relcore/pkg/storage"
	"relcore/pkg/types"
)

// deleteAllMatching removes every row of rel satisfying pred. Used to clear
// a meta-relation's bookkeeping rows for a dropped table or index.
func deleteAllMatching(rel storage.Relation, pred types.Row) error {
	handles, err := rel.Select(pred)
	if err != nil {
		return err
	}
	for _, h := range handles {
		if err := rel.Delete(h); err != nil {
			return err
		}
	}
	return nil
}

func isUnknownIndex(err error) bool {
	return errors.Is(err, catalog.ErrUnknownIndex)
}

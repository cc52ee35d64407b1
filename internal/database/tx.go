package database

import (
	"context"
	"database/sql"
)

type txKey struct{}

// WithTx returns a context carrying an open transaction. Storage-backed
// collaborators join it so a whole marketplace operation commits or rolls
// back as one unit on sqlite's single write connection.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFrom extracts the transaction carried by the context, if any
func TxFrom(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(*sql.Tx)
	return tx, ok
}

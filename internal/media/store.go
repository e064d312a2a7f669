// Package media abstracts the external media asset store. The engine only
// needs two operations: turn an already-validated upload into a public URL
// plus an asset id, and delete by asset id. Delete is idempotent: removing
// an asset that is already gone is not an error.
package media

import "context"

// Asset is a stored media file.
type Asset struct {
	URL     string `json:"url"`
	AssetID string `json:"asset_id"`
}

// Store uploads and deletes media assets.
type Store interface {
	Upload(ctx context.Context, payload string, folder string) (Asset, error)
	Delete(ctx context.Context, assetID string) error
}

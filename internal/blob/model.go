package blob

import "time"

// Blob : objet stocké d'un espace ; la somme des tailles alimente
// le quota de stockage
type Blob struct {
	ID          string `gorm:"primaryKey"`
	CreatedAt   time.Time
	WorkspaceID string `gorm:"index:idx_blob_workspace_key,unique"`
	Key         string `gorm:"index:idx_blob_workspace_key,unique"`
	Size        int64
	ContentType string
	URL         string
}

package doc

import "time"

// Doc : métadonnées serveur d'un document (le contenu riche vit côté client)
type Doc struct {
	ID          string `gorm:"primaryKey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	WorkspaceID string `gorm:"index:idx_doc_workspace_guid,unique"`
	Guid        string `gorm:"index:idx_doc_workspace_guid,unique"`
	Title       string
	Summary     string
	JournalDate *time.Time `gorm:"index"` // posé pour les pages de journal
}

// DocLink : arête orientée du graphe de liens (from → to).
// Les backlinks d'un doc sont les arêtes entrantes.
type DocLink struct {
	ID          string `gorm:"primaryKey"`
	CreatedAt   time.Time
	WorkspaceID string `gorm:"index"`
	FromGuid    string `gorm:"index:idx_link_from"`
	ToGuid      string `gorm:"index:idx_link_to"`
}

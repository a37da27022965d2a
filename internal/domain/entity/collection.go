package entity

import "time"

// SchemaVersion is the current collection document layout version. Documents
// persisted under a different version are treated as empty rather than
// migrated in place.
const SchemaVersion = 1

// CollectionStorageKey is the default storage key for a session's collection.
const CollectionStorageKey = "artifact-collection"

// SavedArtifact is a bookmarked artifact plus the moment it was saved,
// free-text notes, and user tags.
type SavedArtifact struct {
	Artifact Artifact  `json:"artifact"`
	SavedAt  time.Time `json:"savedAt"`
	Notes    string    `json:"notes"`
	Tags     []string  `json:"tags"`
}

// Collection is one session's full set of bookmarks. It is read and written
// as a whole document; concurrent writers race with last-write-wins.
type Collection struct {
	SchemaVersion int             `json:"schemaVersion"`
	Items         []SavedArtifact `json:"items"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// NewCollection returns an empty collection at the current schema version.
func NewCollection(now time.Time) *Collection {
	return &Collection{
		SchemaVersion: SchemaVersion,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Contains reports whether the collection already holds the artifact id.
func (c *Collection) Contains(artifactID string) bool {
	for i := range c.Items {
		if c.Items[i].Artifact.ID == artifactID {
			return true
		}
	}
	return false
}

// Add appends the artifact unless it is already saved. It reports whether
// the collection changed.
func (c *Collection) Add(a Artifact, notes string, tags []string, now time.Time) bool {
	if c.Contains(a.ID) {
		return false
	}
	c.Items = append(c.Items, SavedArtifact{
		Artifact: a,
		SavedAt:  now,
		Notes:    notes,
		Tags:     tags,
	})
	c.UpdatedAt = now
	return true
}

// UpdateNotes replaces the notes on a saved artifact, reporting whether the
// artifact was present.
func (c *Collection) UpdateNotes(artifactID, notes string, now time.Time) bool {
	for i := range c.Items {
		if c.Items[i].Artifact.ID == artifactID {
			c.Items[i].Notes = notes
			c.UpdatedAt = now
			return true
		}
	}
	return false
}

// Remove deletes the artifact by id, reporting whether it was present.
func (c *Collection) Remove(artifactID string, now time.Time) bool {
	for i := range c.Items {
		if c.Items[i].Artifact.ID == artifactID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.UpdatedAt = now
			return true
		}
	}
	return false
}

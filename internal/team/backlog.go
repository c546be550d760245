package team

import (
	"cmp"
	"fmt"
	"slices"
)

// ChangeKind tags what happened to a backlog item during a call.
type ChangeKind string

const (
	ChangeAdded   ChangeKind = "added"
	ChangeUpdated ChangeKind = "updated"
	ChangeRemoved ChangeKind = "removed"
)

// BacklogChange records one itemized backlog mutation.
type BacklogChange struct {
	Kind ChangeKind  `json:"kind"`
	Item BacklogItem `json:"item"`
}

// Summary renders the change for the report's backlog bullet.
func (c BacklogChange) Summary() string {
	switch c.Kind {
	case ChangeAdded:
		return fmt.Sprintf("Added %s [%s | %s]", c.Item.ID, c.Item.Priority, c.Item.Status)
	case ChangeUpdated:
		return fmt.Sprintf("Updated %s -> %s [%s]", c.Item.ID, c.Item.Status, c.Item.Priority)
	case ChangeRemoved:
		return fmt.Sprintf("Removed %s (%s)", c.Item.ID, c.Item.Title)
	}
	return fmt.Sprintf("%s %s", c.Kind, c.Item.ID)
}

// Highlight renders an item as "ID [Priority | Status]".
func (i BacklogItem) Highlight() string {
	return fmt.Sprintf("%s [%s | %s]", i.ID, i.Priority, i.Status)
}

// compareItems orders by priority rank, then status rank, then ID.
func compareItems(a, b BacklogItem) int {
	return cmp.Or(
		cmp.Compare(a.Priority.Rank(), b.Priority.Rank()),
		cmp.Compare(a.Status.Rank(), b.Status.Rank()),
		cmp.Compare(a.ID, b.ID),
	)
}

// OrderBacklog sorts items in place into snapshot order and returns them.
func OrderBacklog(items []BacklogItem) []BacklogItem {
	slices.SortFunc(items, compareItems)
	return items
}

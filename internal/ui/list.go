package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/fernwalter/tunex/internal/models"
)

var _ list.Item = playlistItem{}

// playlistItem wraps [models.Playlist] to implement [list.Item], carrying the
// migrate-selection state for the checkbox rendering.
type playlistItem struct {
	playlist models.Playlist
	selected bool
}

func (i playlistItem) FilterValue() string { return i.playlist.Name }

func (i playlistItem) Title() string {
	marker := "[ ]"
	if i.selected {
		marker = "[x]"
	}
	return fmt.Sprintf("%s %s", marker, i.playlist.Name)
}

func (i playlistItem) Description() string {
	desc := fmt.Sprintf("%d tracks", i.playlist.TrackCount)
	if i.playlist.Description != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.playlist.Description)
	}
	return desc
}

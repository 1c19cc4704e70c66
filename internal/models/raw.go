package models

import (
	"encoding/json"
	"fmt"

	"github.com/desertthunder/playlists/internal/shared"
)

// Playlists and items decoded from the API keep their original object so the cache can
// reproduce every field, including the ones the typed view ignores.

type playlistFields Playlist

type itemFields Item

// UnmarshalJSON decodes the typed fields and retains the raw object.
func (p *Playlist) UnmarshalJSON(data []byte) error {
	var fields playlistFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*p = Playlist(fields)
	p.raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON writes the raw API object when there is one, with tracks.items and tracks.total
// replaced by the hydrated listing. Playlists built in code marshal their typed fields.
func (p Playlist) MarshalJSON() ([]byte, error) {
	if len(p.raw) == 0 {
		return shared.MarshalJSON(playlistFields(p), false)
	}

	var object map[string]json.RawMessage
	if err := json.Unmarshal(p.raw, &object); err != nil {
		return nil, fmt.Errorf("%w: playlist %s: %v", shared.ErrParse, p.ID, err)
	}

	tracks := map[string]json.RawMessage{}
	if existing, ok := object["tracks"]; ok && string(existing) != "null" {
		if err := json.Unmarshal(existing, &tracks); err != nil {
			return nil, fmt.Errorf("%w: playlist %s tracks: %v", shared.ErrParse, p.ID, err)
		}
	}

	items := p.Tracks.Items
	if items == nil {
		items = []Item{}
	}
	encoded, err := shared.MarshalJSON(items, false)
	if err != nil {
		return nil, err
	}
	tracks["items"] = encoded
	tracks["total"] = json.RawMessage(fmt.Sprint(p.Tracks.Total))

	if object["tracks"], err = shared.MarshalJSON(tracks, false); err != nil {
		return nil, err
	}
	return shared.MarshalJSON(object, false)
}

// UnmarshalJSON decodes the typed fields and retains the raw object.
func (i *Item) UnmarshalJSON(data []byte) error {
	var fields itemFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*i = Item(fields)
	i.raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON writes the item exactly as the API sent it.
func (i Item) MarshalJSON() ([]byte, error) {
	if len(i.raw) == 0 {
		return shared.MarshalJSON(itemFields(i), false)
	}
	return i.raw, nil
}

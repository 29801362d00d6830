package models

import "time"

// SessionStatus is the presentation snapshot of one cropping session
type SessionStatus struct {
	ID         string      `json:"id,omitempty"`
	Images     []ImageItem `json:"images"`
	Index      int         `json:"index"`
	Count      int         `json:"count"`
	Current    *ImageItem  `json:"current,omitempty"`
	Zoom       float64     `json:"zoom"`
	Aspect     string      `json:"aspect"`
	Preset     string      `json:"preset,omitempty"`
	Format     string      `json:"format"`
	Template   string      `json:"template"`
	CustomBase string      `json:"custom_base,omitempty"`
	CreatedAt  time.Time   `json:"created_at,omitzero"`
}

// ImageItem describes an uploaded image and its crop state
type ImageItem struct {
	Index      int    `json:"index"`
	Name       string `json:"name"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Cropped    bool   `json:"cropped"`
	CropWidth  int    `json:"crop_width,omitempty"`
	CropHeight int    `json:"crop_height,omitempty"`
	UndoDepth  int    `json:"undo_depth"`
	RedoDepth  int    `json:"redo_depth"`
}

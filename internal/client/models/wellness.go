package models

import "time"

// Group is a support group the user belongs to or can join.
type Group struct {
	ID          int    `json:"id"`
	Name        string `json:"nombre"`
	Description string `json:"descripcion,omitempty"`
	MemberCount int    `json:"miembros,omitempty"`
}

// Member is a participant of a group.
type Member struct {
	ID     int    `json:"id"`
	Name   string `json:"nombre"`
	Role   string `json:"role,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

// Activity is a scheduled wellness activity.
type Activity struct {
	ID          int       `json:"id"`
	Title       string    `json:"titulo"`
	Description string    `json:"descripcion,omitempty"`
	StartsAt    time.Time `json:"fecha_inicio,omitempty"`
	GroupID     int       `json:"grupo_id,omitempty"`
}

// VoiceAnalysis is the result of submitting a voice recording.
// Status starts as "pending" and moves to "done" once the backend has
// scored the recording.
type VoiceAnalysis struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Emotion   string    `json:"emotion,omitempty"`
	Score     float64   `json:"score,omitempty"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Recommendation is a suggested exercise or content item derived from
// past analyses.
type Recommendation struct {
	ID     int    `json:"id"`
	Title  string `json:"titulo"`
	Body   string `json:"contenido,omitempty"`
	Reason string `json:"motivo,omitempty"`
}

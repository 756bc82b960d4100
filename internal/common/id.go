package common

import (
	"github.com/google/uuid"
)

// NewAnalysisID generates a unique analysis ID with the "anl_" prefix
// Format: anl_<uuid>
func NewAnalysisID() string {
	return "anl_" + uuid.New().String()
}

// NewNotificationID generates a unique notification ID with the "ntf_" prefix
// Format: ntf_<uuid>
func NewNotificationID() string {
	return "ntf_" + uuid.New().String()
}

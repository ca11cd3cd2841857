package store

import (
	"time"
)

type Model struct {
	ID int `json:"id"`
}

// Check is the outcome of checking one container against its registry.
type Check struct {
	Model
	CheckedAt       time.Time `json:"checkedAt"`
	ContainerName   string    `json:"containerName"`
	CurrentVersion  string    `json:"currentVersion,omitempty"`
	Error           string    `json:"error,omitempty"`
	ImageRef        string    `json:"imageRef"`
	LatestTag       string    `json:"latestTag,omitempty"`
	LocalDigest     string    `json:"localDigest"`
	NewerVersion    bool      `json:"newerVersion"`
	RemoteDigest    string    `json:"remoteDigest,omitempty"`
	Repository      string    `json:"repository"`
	UpdateAvailable bool      `json:"updateAvailable"`
}

func (Check) TableName() string {
	return "freshness_check"
}

package ports

import "time"

// VersionSource returns the version string of the host application.
type VersionSource interface {
	Version() string
}

// StaticVersion is a VersionSource with a fixed value.
type StaticVersion string

func (v StaticVersion) Version() string { return string(v) }

// Clock returns the wall-clock time used in report footers.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the local time.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

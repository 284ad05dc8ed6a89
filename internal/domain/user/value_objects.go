package user

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrInvalidEmail     = errors.New("invalid email format")
	ErrInvalidRole      = errors.New("invalid role")
	ErrPasswordTooWeak  = errors.New("password must be at least 8 characters long")
	ErrNegativeCoins    = errors.New("coin balance cannot be negative")
	ErrNegativeResource = errors.New("resource limits cannot be negative")
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

type Email struct {
	value string
}

func NewEmail(s string) (Email, error) {
	s = strings.TrimSpace(s)
	if !emailRegex.MatchString(s) {
		return Email{}, ErrInvalidEmail
	}
	return Email{value: s}, nil
}

func (e Email) Value() string {
	return e.value
}

type Password struct {
	value string
}

func NewPassword(s string) (Password, error) {
	if len(s) < 8 {
		return Password{}, ErrPasswordTooWeak
	}
	return Password{value: s}, nil
}

func (p Password) Value() string {
	return p.value
}

// ResourceLimits is the per-user provisioning envelope. Values are absolute
// capacities, or deltas when used inside a redemption effect.
type ResourceLimits struct {
	DiskMb      int64 `json:"disk_mb"`
	MemoryMb    int64 `json:"memory_mb"`
	CpuPercent  int64 `json:"cpu_percent"`
	Backups     int64 `json:"backups"`
	Databases   int64 `json:"databases"`
	Allocations int64 `json:"allocations"`
	ServerLimit int64 `json:"server_limit"`
}

func (r ResourceLimits) Add(delta ResourceLimits) ResourceLimits {
	return ResourceLimits{
		DiskMb:      r.DiskMb + delta.DiskMb,
		MemoryMb:    r.MemoryMb + delta.MemoryMb,
		CpuPercent:  r.CpuPercent + delta.CpuPercent,
		Backups:     r.Backups + delta.Backups,
		Databases:   r.Databases + delta.Databases,
		Allocations: r.Allocations + delta.Allocations,
		ServerLimit: r.ServerLimit + delta.ServerLimit,
	}
}

func (r ResourceLimits) IsZero() bool {
	return r == ResourceLimits{}
}

func (r ResourceLimits) Validate() error {
	for _, v := range []int64{r.DiskMb, r.MemoryMb, r.CpuPercent, r.Backups, r.Databases, r.Allocations, r.ServerLimit} {
		if v < 0 {
			return ErrNegativeResource
		}
	}
	return nil
}

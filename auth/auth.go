// Package auth resolves the authoritative identity of a player at login.
package auth

import (
	"context"
	"crypto/md5"
	"errors"

	"github.com/google/uuid"

	"github.com/gstoney/mcserver/packet"
)

var ErrProfileNotFound = errors.New("profile not found")

// Resolver looks up player identities during login.
type Resolver interface {
	ResolveUUID(ctx context.Context, name string) (uuid.UUID, error)
	FetchProfileProperties(ctx context.Context, id uuid.UUID) ([]packet.Property, error)
}

// OfflineUUID derives the UUID an offline-mode server gives name: a version 3
// UUID of "OfflinePlayer:"+name with no namespace.
func OfflineUUID(name string) uuid.UUID {
	sum := md5.Sum([]byte("OfflinePlayer:" + name))
	sum[6] = sum[6]&0x0f | 0x30
	sum[8] = sum[8]&0x3f | 0x80
	return uuid.UUID(sum)
}

// Offline resolves every name locally and never has profile properties.
type Offline struct{}

func (Offline) ResolveUUID(_ context.Context, name string) (uuid.UUID, error) {
	return OfflineUUID(name), nil
}

func (Offline) FetchProfileProperties(context.Context, uuid.UUID) ([]packet.Property, error) {
	return nil, nil
}

package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubDB struct{ ok bool }

func (s stubDB) CheckDB(context.Context) bool { return s.ok }

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func TestService_Check(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		db      bool
		pingErr error
		wantOK  bool
	}{
		{name: "all healthy", db: true, wantOK: true},
		{name: "database down", db: false, wantOK: false},
		{name: "token store down", db: true, pingErr: errors.New("connection refused"), wantOK: false},
		{name: "everything down", db: false, pingErr: errors.New("connection refused"), wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(stubDB{ok: tt.db}, stubPinger{err: tt.pingErr})
			status := svc.Check(ctx)
			assert.Equal(t, tt.db, status.Database)
			assert.Equal(t, tt.pingErr == nil, status.TokenStore)
			assert.Equal(t, tt.wantOK, status.OK())
		})
	}
}

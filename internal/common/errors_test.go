package common

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"deadline", fmt.Errorf("page 3: %w", context.DeadlineExceeded), CodeTimeout},
		{"unreadable", Unreadable("a.pdf", io.ErrUnexpectedEOF), CodeDocumentUnreadable},
		{"store", fmt.Errorf("save: %w", StoreFailed("insert county_summary", errors.New("disk full"))), CodeStoreFailed},
		{"plain", errors.New("boom"), CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Code(tt.err); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	err := StoreFailed("commit", io.ErrClosedPipe)
	if !errors.Is(err, ErrDatabase) || !errors.Is(err, io.ErrClosedPipe) {
		t.Fatalf("expected both sentinels in %v", err)
	}
	if !errors.Is(Unreadable("x.pdf", nil), ErrUnreadable) {
		t.Fatal("expected ErrUnreadable")
	}
}

func TestToStatus(t *testing.T) {
	tests := []struct {
		err  error
		want codes.Code
	}{
		{context.DeadlineExceeded, codes.DeadlineExceeded},
		{Unreadable("a.pdf", nil), codes.InvalidArgument},
		{StoreFailed("commit", nil), codes.Unavailable},
		{context.Canceled, codes.Canceled},
		{errors.New("boom"), codes.Internal},
		{NotFoundError("report 7"), codes.NotFound},
	}
	for _, tt := range tests {
		if got := status.Code(ToStatus(tt.err)); got != tt.want {
			t.Errorf("ToStatus(%v): got %v, want %v", tt.err, got, tt.want)
		}
	}
	if ToStatus(nil) != nil {
		t.Error("ToStatus(nil) should be nil")
	}
}

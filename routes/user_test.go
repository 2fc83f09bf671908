package routes

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/gorm"
)

func TestIsDuplicateKey(t *testing.T) {
	if !isDuplicateKey(gorm.ErrDuplicatedKey) {
		t.Fatal("translated unique violations must be recognized")
	}
	if !isDuplicateKey(fmt.Errorf("creating user: %w", gorm.ErrDuplicatedKey)) {
		t.Fatal("wrapped unique violations must be recognized")
	}
	if isDuplicateKey(errors.New("connection refused")) {
		t.Fatal("unrelated errors must not map to the conflict response")
	}
	if isDuplicateKey(nil) {
		t.Fatal("nil is not a duplicate key error")
	}
}

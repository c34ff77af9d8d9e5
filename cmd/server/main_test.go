package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iudanet/celar/internal/config"
)

func TestRun_MissingSecret(t *testing.T) {
	t.Setenv("CELAR_JWT_SECRET", "")

	err := run([]string{"-db", t.TempDir() + "/celar.db"})
	assert.ErrorIs(t, err, config.ErrMissingJWTSecret)
}

func TestRun_Version(t *testing.T) {
	t.Setenv("CELAR_JWT_SECRET", "")

	assert.NoError(t, run([]string{"-version"}))
}

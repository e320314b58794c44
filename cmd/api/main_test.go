package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lesotho-epassport/backend/internal/config"
)

func TestNewHTTPServerAppliesTimeouts(t *testing.T) {
	srv := newHTTPServer(config.ServerConfig{
		Port:         "9090",
		ReadTimeout:  15,
		WriteTimeout: 20,
	}, nil)

	assert.Equal(t, ":9090", srv.Addr)
	assert.Equal(t, 15*time.Second, srv.ReadTimeout)
	assert.Equal(t, 20*time.Second, srv.WriteTimeout)
}

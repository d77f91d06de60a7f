package main

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/javajoker/price-tracker/internal/config"
)

func TestNewServer(t *testing.T) {
	handler := http.NewServeMux()
	srv := newServer(config.ServerConfig{
		Host:         "0.0.0.0",
		Port:         "8080",
		ReadTimeout:  15,
		WriteTimeout: 120,
		IdleTimeout:  60,
	}, handler)

	assert.Equal(t, "0.0.0.0:8080", srv.Addr)
	assert.Equal(t, handler, srv.Handler)
	assert.Equal(t, 15*time.Second, srv.ReadTimeout)
	assert.Equal(t, 120*time.Second, srv.WriteTimeout)
	assert.Equal(t, time.Minute, srv.IdleTimeout)
}

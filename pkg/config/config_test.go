package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDSN_CodificaCaracteresEspeciales(t *testing.T) {
	db := DBConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "p@ss:w/rd",
		DBName:   "stock_rentals",
		SSLMode:  "disable",
	}
	dsn := db.DSN()
	assert.Contains(t, dsn, "p%40ss%3Aw%2Frd", "la contraseña va URL-encoded")
	assert.Contains(t, dsn, "localhost:5432/stock_rentals")
	assert.Contains(t, dsn, "sslmode=disable")
}

func TestConnectionString_PrefiereDatabaseURL(t *testing.T) {
	db := DBConfig{
		DatabaseURL: "postgresql://u:p@db:5432/app?sslmode=require",
		Host:        "ignorado",
	}
	assert.Equal(t, "postgresql://u:p@db:5432/app?sslmode=require", db.ConnectionString())
}

func TestHTTPAddr(t *testing.T) {
	h := HTTPConfig{Host: "0.0.0.0", Port: 8080}
	assert.Equal(t, "0.0.0.0:8080", h.Addr())
}

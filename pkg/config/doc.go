// Package config loads typed configuration structs from environment
// variables, with an optional .env file picked up once per process.
//
// Each package owning configuration declares a struct with env tags:
//
//	type Config struct {
//		Addr   string `env:"HTTP_ADDR" envDefault:":8080"`
//		Secret string `env:"WEBHOOK_SECRET,required"`
//	}
//
// and the binary loads it at startup with config.Load or config.MustLoad.
package config

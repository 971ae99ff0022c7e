// Package logger centraliza el logging estructurado del servicio sobre zap.
//
// Uso típico:
//
//	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})
//	defer logger.Sync()
//
//	log := logger.From(ctx) // logger scoped del request (o el singleton)
//	log.Info("refresh token rotado", logger.AccountID(id))
package logger

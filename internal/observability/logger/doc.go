// Package logger expone un logger Zap global y su variante "scoped" por request.
//
// Inicialización (una vez en main):
//
//	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})
//	defer logger.Sync()
//
// En services y handlers:
//
//	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("social.callback"))
//	log.Info("user reconciled", logger.UserID(u.ID), logger.Provider("google"))
//
// El middleware de logging inyecta request_id, method y path en el logger del
// contexto, así que todo log dentro de un request queda correlacionado.
package logger

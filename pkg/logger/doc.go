// Package logger builds *slog.Logger instances for the alert dispatch
// service: JSON or text output, environment presets, optional size-rotated
// log files, and context extractors that copy request-scoped values (such as
// the request id) into every record.
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.Env, "opsnotify"),
//	    logger.WithConfig(cfg.Log),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	logger.SetAsDefault(log)
//
// Attribute helpers (Error, NotificationID, Priority, Role, ...) keep key
// names consistent across packages. Error and Errors return an empty Attr for
// nil errors so call sites need no nil check.
package logger

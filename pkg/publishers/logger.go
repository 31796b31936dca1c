package publishers

type noopLogger struct{}

func (noopLogger) InfoObj(string, string, interface{})  {}
func (noopLogger) DebugObj(string, string, interface{}) {}
func (noopLogger) WarnObj(string, string, interface{})  {}
func (noopLogger) ErrorObj(string, string, interface{}) {}

func ensureLogger(log Logger) Logger {
	if log == nil {
		return noopLogger{}
	}
	return log
}

// deliveryFields is the common structured payload for delivery logs.
func deliveryFields(id string, evt Event, err error) map[string]any {
	fields := map[string]any{
		"publisher_id": id,
		"event_type":   evt.Type,
		"operation":    evt.Operation,
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	return fields
}

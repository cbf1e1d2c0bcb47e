package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger() (*logrus.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	logger := logrus.New()
	logger.SetOutput(buf)
	logger.SetFormatter(&logrus.JSONFormatter{})
	return logger, buf
}

func TestGetLogData_Missing(t *testing.T) {
	logData := GetLogData(context.Background())
	assert.Nil(t, logData)

	// Nil LogData is safe to use.
	logData.AddData("k", "v")
	logData.AddTiming("t")()
}

func TestLogData_Fields(t *testing.T) {
	logger, buf := newBufferLogger()
	logData := NewLogData(logger)
	logData.AddData("accountID", "abc")
	logData.AddTiming("queryMs")()

	logData.Log().Info("done")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "abc", line["accountID"])
	assert.Contains(t, line, "queryMs")
}

func TestLoggingWrapper_FreshLogDataPerRequest(t *testing.T) {
	logger, buf := newBufferLogger()
	var seen []*LogData
	handler := LoggingWrapper("Test", logger, func(w http.ResponseWriter, req *http.Request, logData *LogData) error {
		assert.Same(t, logData, GetLogData(req.Context()))
		seen = append(seen, logData)
		w.WriteHeader(http.StatusOK)
		return nil
	})

	handler(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	handler(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Len(t, seen, 2)
	assert.NotSame(t, seen[0], seen[1])
	assert.Contains(t, buf.String(), "Handler.Test.Complete")
}

func TestSetupLogging_Level(t *testing.T) {
	logger := SetupLogging("debug")
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	logger = SetupLogging("nonsense")
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
}

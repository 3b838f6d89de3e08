package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/observer/internal/config"
	"github.com/vango-dev/observer/internal/demo"
	"github.com/vango-dev/observer/pkg/snapshot"
	"github.com/vango-dev/observer/pkg/subject"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMain(m *testing.M) {
	subject.SetLogger(quietLogger())
	os.Exit(m.Run())
}

func newTestConsole(t *testing.T) (*console, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	c := newConsole(demo.NewThermostat(quietLogger()), &out)
	store, err := snapshot.NewDirStore(t.TempDir())
	require.NoError(t, err)
	c.archive = snapshot.NewArchive(store, snapshot.JSON)
	return c, &out
}

func TestConsoleSubjects(t *testing.T) {
	c, out := newTestConsole(t)

	c.exec("list")
	assert.Contains(t, out.String(), "setpoint")
	assert.Contains(t, out.String(), "summary")

	out.Reset()
	c.exec("set preset Late night")
	assert.Equal(t, "Late night", c.thermostat.Preset.Text())
	assert.Equal(t, "Late night", c.thermostat.PresetText.Text())

	out.Reset()
	c.exec("get setpoint")
	assert.Contains(t, out.String(), "value:     21")

	out.Reset()
	c.exec("set setpoint hot")
	assert.Contains(t, out.String(), "OBS006")

	out.Reset()
	c.exec("get nope")
	assert.Contains(t, out.String(), "OBS005")
}

func TestConsoleWidgets(t *testing.T) {
	c, out := newTestConsole(t)

	c.exec("drag setpoint-slider 26")
	assert.Equal(t, int32(26), c.thermostat.Setpoint.Int())
	assert.Contains(t, out.String(), "heat 26°C")

	c.exec("click up")
	assert.Equal(t, int32(27), c.thermostat.Setpoint.Int())

	c.exec("select mode 0")
	assert.Equal(t, int32(0), c.thermostat.Mode.Int())

	out.Reset()
	c.exec("drag up 3")
	assert.Contains(t, out.String(), "cannot be dragged")

	c.exec("delete setpoint-label")
	c.exec("set setpoint 12")
	assert.Equal(t, "27°C", c.thermostat.SetpointText.Text(), "deleted label keeps its last text")
	assert.Equal(t, int32(12), c.thermostat.Slider.Value())

	out.Reset()
	c.exec("click missing")
	assert.Contains(t, out.String(), `no widget named "missing"`)
}

func TestConsoleWatch(t *testing.T) {
	c, out := newTestConsole(t)

	c.exec("watch on")
	assert.Empty(t, out.String(), "catch-up calls are not printed")

	c.exec("set mode 2")
	assert.Contains(t, out.String(), "mode: 1 -> 2")

	c.exec("watch off")
	out.Reset()
	c.exec("set mode 3")
	assert.NotContains(t, out.String(), "->")
}

func TestConsoleSnapshot(t *testing.T) {
	c, out := newTestConsole(t)

	c.exec("set setpoint 24")
	c.exec("snapshot save evening")
	assert.Contains(t, out.String(), "evening.json")

	c.exec("set setpoint 11")
	c.exec("snapshot load evening")
	assert.Equal(t, int32(24), c.thermostat.Setpoint.Int())

	out.Reset()
	c.exec("snapshot load nothing")
	assert.Contains(t, out.String(), "not found")
}

func TestConsoleQuit(t *testing.T) {
	c, out := newTestConsole(t)
	assert.False(t, c.exec(""))
	assert.False(t, c.exec("bogus"))
	assert.Contains(t, out.String(), "Unknown command: bogus")
	assert.True(t, c.exec("quit"))
}

func TestRunInit(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, runInit(dir, true, false))
	assert.FileExists(t, filepath.Join(dir, config.YAMLConfigFileName))

	err := runInit(dir, false, false)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "OBS010"))

	require.NoError(t, runInit(dir, false, true))
	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultInspectorAddr, cfg.Inspector.Addr)
}

func TestLoadConfigFlags(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.ConfigFileName),
		[]byte(`{"snapshot":{"format":"cbor"}}`), 0644))

	configPath, logLevel = dir, "debug"
	t.Cleanup(func() { configPath, logLevel = "", "" })

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "cbor", cfg.Snapshot.Format)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel())

	logLevel = "chatty"
	_, err = loadConfig()
	assert.Error(t, err)
}

func TestWriteVersion(t *testing.T) {
	info := currentBuild()
	assert.Equal(t, subject.DefaultMaxNotifyDepth, info.MaxNotifyDepth)
	assert.Equal(t, config.DefaultInspectorAddr, info.InspectorAddr)

	var out bytes.Buffer
	require.NoError(t, writeVersion(&out, info, true, false))
	assert.Equal(t, info.Version+"\n", out.String())

	out.Reset()
	require.NoError(t, writeVersion(&out, info, false, false))
	assert.Contains(t, out.String(), "max notify depth  32")
	assert.Contains(t, out.String(), "loop call timeout 2s")

	out.Reset()
	require.NoError(t, writeVersion(&out, info, false, true))
	var decoded buildInfo
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, info, decoded)
}

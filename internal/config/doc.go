// Package config provides configuration loading for observer applications.
//
// The configuration lives in observer.json (or observer.yaml) next to the
// application. Missing fields take their defaults; Validate reports the
// first invalid setting as an OBS010 error.
//
// # Configuration File Structure
//
//	{
//	  "name": "thermostat",
//	  "log": {"level": "debug", "format": "json"},
//	  "engine": {"maxNotifyDepth": 16},
//	  "metrics": {"enabled": true, "namespace": "observer"},
//	  "tracing": {"enabled": true},
//	  "inspector": {"addr": "localhost:7070", "streamBuffer": 64, "callTimeout": "2s"},
//	  "snapshot": {"dir": "snapshots", "format": "cbor"}
//	}
//
// The same settings in YAML:
//
//	log:
//	  level: debug
//	snapshot:
//	  bucket: my-bucket
//	  prefix: thermostat/
//	  region: eu-central-1
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	logger := cfg.NewLogger(os.Stderr)
package config

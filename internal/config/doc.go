// Package config provides configuration parsing for the safecontext CLI.
//
// The configuration is stored in safecontext.json, found by walking up from
// the working directory. Every field is optional.
//
// # Configuration File Structure
//
//	{
//	  "server": {
//	    "addr": "localhost:8080"
//	  },
//	  "render": {
//	    "pretty": true
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "namespace": "safecontext"
//	  },
//	  "tracing": {
//	    "tracerName": "safecontext"
//	  },
//	  "scenarios": {
//	    "version": "1.0",
//	    "url": "http://localhost:8080",
//	    "location": [37.0902, 95.7129],
//	    "maxWaitTime": 1000,
//	    "title": "x"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.LoadFromWorkingDir()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Addr:", cfg.Server.Addr)
package config

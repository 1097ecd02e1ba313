// Package config provides configuration parsing for the dynbind tools.
//
// The configuration is stored in dynbind.json next to the scenarios, or at
// any path passed with --config. Every field is optional.
//
// # Configuration File Structure
//
//	{
//	  "log": {
//	    "level": "info",
//	    "format": "text"
//	  },
//	  "server": {
//	    "address": "localhost:7070",
//	    "readHeaderTimeout": "5s"
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "namespace": "dynbind"
//	  },
//	  "tracing": {
//	    "tracerName": "dynbind"
//	  },
//	  "s3": {
//	    "region": "us-east-1",
//	    "endpoint": "http://localhost:9000",
//	    "usePathStyle": true
//	  }
//	}
//
// DYNBIND_LOG_LEVEL and DYNBIND_ADDR override log.level and
// server.address.
package config

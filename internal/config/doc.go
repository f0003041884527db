// Package config provides configuration parsing for componenttree projects.
//
// The configuration is stored in componenttree.json at the project root.
// This package handles loading, saving, validating and overriding it from
// the environment.
//
// # Configuration File Structure
//
//	{
//	  "descriptor": "app.tree.json",
//	  "build": {
//	    "unify": {
//	      "enable": false,
//	      "useSingleChildNodeForComposite": false,
//	      "useRenderNodes": false,
//	      "useVector": true
//	    },
//	    "alwaysBuildRenderTree": false,
//	    "alwaysBuildRenderTreeInDebug": true,
//	    "debug": false,
//	    "enableLayoutCacheInRender": false
//	  },
//	  "inspector": {
//	    "host": "localhost",
//	    "port": 7070,
//	    "history": 32
//	  },
//	  "snapshot": {
//	    "target": "s3://my-bucket/trees"
//	  },
//	  "metrics": {
//	    "namespace": "componenttree"
//	  },
//	  "log": {
//	    "level": "info"
//	  }
//	}
//
// # Environment
//
// Variables prefixed with COMPONENTTREE_ override file values after
// loading, e.g. COMPONENTTREE_DEBUG=1 or COMPONENTTREE_INSPECTOR_PORT=9000.
// See ApplyEnv for the full list.
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	b := build.New(build.WithConfig(cfg.BuildConfig()))
package config

package config

// Example usage of Config Manager
//
// Example 1: Load configuration
//
//	cfg, err := config.Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Example 2: Shorten the simulated latencies and save to the YAML file
//
//	manager := config.GetManager()
//	err := manager.Update(map[string]interface{}{
//		"latency.fetch":   "250ms",
//		"latency.comment": "250ms",
//		"storage.backend": "sqlite",
//	})
//
// Example 3: Replace the compiled-in catalog
//
//	catalog:
//	  - id: "10"
//	    title: "Go Concurrency"
//	    duration: "21:04"
//	    tags: [go, channels]
//	    view_count: 4200
//	    rating: 4.9
//	    published_at: "2026-10-01"

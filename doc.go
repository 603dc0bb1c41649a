/*
Package vitals serves device vitals telemetry over HTTP.

Devices post timestamped readings of thermal state, battery level and memory
usage. Each reading is validated and stored. Clients page through the history
newest first, and read rolling statistics over the most recent readings.

	POST /api/vitals            store one reading, 201 with Location
	GET  /api/vitals            history, ?page=1&page_size=20
	GET  /api/vitals/{id}       one reading
	GET  /api/vitals/analytics  rolling window statistics and trends
	GET  /health                liveness
	GET  /metrics               Prometheus exposition
	POST /admin/backup          SQLite backup now
	GET  /admin/backups         list backup files

Example:

	s, err := vitals.New()
	if err != nil {
		log.Fatal(err)
	}
	defer s.Close()

	http.ListenAndServe(":8080", s.Handler())

A submission looks like this. The timestamp is any ISO 8601 instant and is
stored in UTC. It may be up to five minutes ahead of server time.

	{
		"device_id": "pixel-7-a1b2",
		"timestamp": "2024-01-15T11:59:00Z",
		"thermal_value": 1,
		"battery_level": 80,
		"memory_usage": 45.5
	}

Analytics cover the newest 100 readings across all devices. Each trend
compares the mean of the newer half of the window with the older half, and
reports increasing, decreasing, stable or insufficient_data.

Configuration:

All settings are environment variables, optionally loaded from a .env file
by cmd/vitalsd.

	VITALS_STORAGE=sqlite          memory, sqlite or postgres
	VITALS_DB_PATH=/tmp/vitals.db
	VITALS_POSTGRES_DSN=""
	VITALS_WINDOW_SIZE=100
	VITALS_RATE_LIMIT=100          per client per VITALS_RATE_WINDOW
	VITALS_REDIS_ADDR=""           share rate limits between instances
	VITALS_BACKUP_ENABLED=false
	VITALS_DEBUG=false
*/
package vitals

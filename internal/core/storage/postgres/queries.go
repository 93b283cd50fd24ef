package postgres

// SQL queries for call-record storage operations.

const (
	// queryInsertRecord inserts one call record. Reference is the primary key;
	// a collision surfaces as a unique_violation and fails the whole batch
	// transaction. RETURNING retrieves the auto-generated ingest_seq so
	// insertion order is observable on the entity.
	queryInsertRecord = `
		INSERT INTO call_records (
			reference, caller_id, recipient, call_date,
			end_time, duration, cost, currency
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ingest_seq
	`

	// All read queries order by ingest_seq ASC: the analytics engine's
	// most-frequent-caller tie-break depends on stable insertion order.
	queryGetByCaller = `
		SELECT
			reference, caller_id, recipient, call_date,
			end_time, duration, cost, currency, ingest_seq
		FROM call_records
		WHERE caller_id = $1
		ORDER BY ingest_seq ASC
	`

	queryGetByRecipient = `
		SELECT
			reference, caller_id, recipient, call_date,
			end_time, duration, cost, currency, ingest_seq
		FROM call_records
		WHERE recipient = $1
		ORDER BY ingest_seq ASC
	`

	queryGetByDate = `
		SELECT
			reference, caller_id, recipient, call_date,
			end_time, duration, cost, currency, ingest_seq
		FROM call_records
		WHERE call_date = $1
		ORDER BY ingest_seq ASC
	`

	// Bounds are inclusive on both ends, by calendar date.
	queryGetByDateRange = `
		SELECT
			reference, caller_id, recipient, call_date,
			end_time, duration, cost, currency, ingest_seq
		FROM call_records
		WHERE call_date >= $1 AND call_date <= $2
		ORDER BY ingest_seq ASC
	`

	queryGetAll = `
		SELECT
			reference, caller_id, recipient, call_date,
			end_time, duration, cost, currency, ingest_seq
		FROM call_records
		ORDER BY ingest_seq ASC
	`
)

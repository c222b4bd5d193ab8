package store

const (
	insertList = `
		INSERT INTO lists (
			id,
			user_id,
			name,
			type,
			owner_id,
			previous_id,
			modified,
			state
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`

	updateList = `
		UPDATE lists SET
			name        = $1,
			type        = $2,
			owner_id    = $3,
			previous_id = $4,
			modified    = $5,
			state       = $6
		WHERE user_id = $7 AND id = $8;`

	deleteList = `
		DELETE FROM lists
		WHERE user_id = $1 AND id = $2;`

	getSingleList = `
		SELECT
			id,
			name,
			type,
			owner_id,
			previous_id,
			modified,
			state
		FROM lists
		WHERE user_id = $1 AND id = $2;`

	insertItem = `
		INSERT INTO items (
			id,
			list_id,
			user_id,
			description,
			count,
			tick,
			creator,
			previous_id,
			modified,
			state
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);`

	updateItem = `
		UPDATE items SET
			list_id     = $1,
			description = $2,
			count       = $3,
			tick        = $4,
			creator     = $5,
			previous_id = $6,
			modified    = $7,
			state       = $8
		WHERE user_id = $9 AND id = $10;`

	deleteItem = `
		DELETE FROM items
		WHERE user_id = $1 AND id = $2;`

	getSingleItem = `
		SELECT
			id,
			list_id,
			description,
			count,
			tick,
			creator,
			previous_id,
			modified,
			state
		FROM items
		WHERE user_id = $1 AND id = $2;`

	upsertShare = `
		INSERT INTO shares (
			list_id,
			user_id,
			email,
			access,
			accepted,
			state
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (list_id, email, user_id) DO UPDATE SET
			access   = excluded.access,
			accepted = excluded.accepted,
			state    = excluded.state;`

	deleteShare = `
		DELETE FROM shares
		WHERE user_id = $1 AND list_id = $2 AND email = $3;`
)

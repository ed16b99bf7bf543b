package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS messages (
    message_id   TEXT NOT NULL,
    address      TEXT,
    ts           TEXT,
    body         TEXT,
    imported_at  TEXT NOT NULL,
    PRIMARY KEY (message_id, address)
);

CREATE INDEX IF NOT EXISTS idx_messages_ts ON messages(ts);
`

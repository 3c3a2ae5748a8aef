package db

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;

-- One row per download run.
CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT PRIMARY KEY,
    app_id TEXT NOT NULL,
    app_name TEXT NOT NULL,
    overall_status TEXT NOT NULL,
    country_count INTEGER NOT NULL DEFAULT 0,
    logo_count INTEGER NOT NULL DEFAULT 0,
    screenshot_count INTEGER NOT NULL DEFAULT 0,
    output_dir TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_runs_app ON runs(app_id);
CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);

-- Per-country outcome within a run, in request order.
CREATE TABLE IF NOT EXISTS run_countries (
    country_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    country TEXT NOT NULL,
    locale_used TEXT NOT NULL,
    status TEXT NOT NULL,
    logo_saved BOOLEAN NOT NULL DEFAULT 0,
    screenshot_count INTEGER NOT NULL DEFAULT 0,
    error_message TEXT,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE,
    UNIQUE(run_id, country)
);

CREATE INDEX IF NOT EXISTS idx_run_countries_run ON run_countries(run_id);

-- Files written by a run: images, the JSON report, the PDF.
CREATE TABLE IF NOT EXISTS artifacts (
    artifact_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL,
    country TEXT,
    kind TEXT NOT NULL,  -- logo, screenshot, report, pdf
    file_path TEXT NOT NULL,
    size_bytes INTEGER NOT NULL DEFAULT 0,
    content_hash TEXT,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_artifacts_run ON artifacts(run_id);
CREATE INDEX IF NOT EXISTS idx_artifacts_kind ON artifacts(kind);
`

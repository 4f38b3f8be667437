package postgresql

// migrations returns the versioned schema statements. Versions are applied
// in ascending order; never edit a shipped version, add a new one.
func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE IF NOT EXISTS workflows (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				category TEXT NOT NULL DEFAULT '',
				version INTEGER NOT NULL DEFAULT 1,
				status TEXT NOT NULL,
				nodes JSONB NOT NULL DEFAULT '[]',
				edges JSONB NOT NULL DEFAULT '[]',
				variables JSONB,
				settings JSONB,
				owner TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL,
				deleted_at TIMESTAMP WITH TIME ZONE
			);

			CREATE INDEX IF NOT EXISTS idx_workflows_status ON workflows (status) WHERE deleted_at IS NULL;
			CREATE INDEX IF NOT EXISTS idx_workflows_category ON workflows (category) WHERE deleted_at IS NULL;
		`,
		2: `
			CREATE TABLE IF NOT EXISTS executions (
				id TEXT PRIMARY KEY,
				workflow_id TEXT NOT NULL,
				workflow_version INTEGER NOT NULL DEFAULT 1,
				user_id TEXT NOT NULL DEFAULT '',
				status TEXT NOT NULL,
				mode TEXT NOT NULL,
				start_time TIMESTAMP WITH TIME ZONE NOT NULL,
				end_time TIMESTAMP WITH TIME ZONE,
				inputs JSONB,
				outputs JSONB,
				context JSONB NOT NULL DEFAULT '{}',
				node_results JSONB NOT NULL DEFAULT '{}',
				completed_nodes JSONB NOT NULL DEFAULT '[]',
				failed_nodes JSONB NOT NULL DEFAULT '[]',
				current_node TEXT NOT NULL DEFAULT '',
				error TEXT NOT NULL DEFAULT '',
				total_nodes INTEGER NOT NULL DEFAULT 0,
				logs JSONB NOT NULL DEFAULT '[]',
				metrics JSONB NOT NULL DEFAULT '{}',
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX IF NOT EXISTS idx_executions_workflow_id ON executions (workflow_id);
			CREATE INDEX IF NOT EXISTS idx_executions_status ON executions (status);
			CREATE INDEX IF NOT EXISTS idx_executions_start_time ON executions (start_time DESC);
		`,
	}
}

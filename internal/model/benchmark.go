package model

// BenchmarkResult is the outcome of one benchmark run. Timings are in
// milliseconds; scores are unitless with higher meaning faster.
type BenchmarkResult struct {
	RandomMs          int64  `json:"random_ms"`
	MatrixMs          int64  `json:"matrix_ms"`
	HashMs            int64  `json:"hash_ms"`
	MultiThreadMs     int64  `json:"multi_thread_ms"`
	SingleThreadScore int64  `json:"single_thread_score"`
	MultiThreadScore  int64  `json:"multi_thread_score"`
	OverallScore      int64  `json:"overall_score"`
	Tier              string `json:"tier"`
	Comparison        string `json:"comparison"`
	Workers           int    `json:"workers"`
	Hash              string `json:"hash"`
}

// BenchmarkRun is a stored benchmark result.
type BenchmarkRun struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"`
	BenchmarkResult
}

package metrics

// Recording helpers used by pipeline components. They no-op before Init so
// pure-logic tests can exercise the pipeline without a registry.

func IncAnalysis(outcome string) {
	if M.AnalysesTotal != nil {
		M.AnalysesTotal.WithLabelValues(outcome).Inc()
	}
}

func ObserveAnalysisDuration(seconds float64) {
	if M.AnalysisDuration != nil {
		M.AnalysisDuration.Observe(seconds)
	}
}

func AddCommentsFetched(n int) {
	if M.CommentsFetched != nil {
		M.CommentsFetched.Add(float64(n))
	}
}

func IncCommentPage() {
	if M.CommentPagesFetched != nil {
		M.CommentPagesFetched.Inc()
	}
}

func AddCommentsClassified(n int) {
	if M.CommentsClassified != nil {
		M.CommentsClassified.Add(float64(n))
	}
}

func IncClassifierFallback(reason string) {
	if M.ClassifierFallbacks != nil {
		M.ClassifierFallbacks.WithLabelValues(reason).Inc()
	}
}

func IncCacheHit() {
	if M.CacheHits != nil {
		M.CacheHits.Inc()
	}
}

func IncCacheMiss() {
	if M.CacheMisses != nil {
		M.CacheMisses.Inc()
	}
}

package store

// Typed wrappers over Query for the callers that want structs rather than
// raw records: handlers, the recommender and the progress report.

func (s *Store) Users() ([]User, error) {
	recs, err := s.Query(Request{Action: ActionSelect, Collection: CollectionUsers})
	if err != nil {
		return nil, err
	}
	users := make([]User, 0, len(recs))
	for _, r := range recs {
		users = append(users, userFromRecord(r))
	}
	return users, nil
}

// UserByUsername returns nil when no account matches.
func (s *Store) UserByUsername(username string) (*User, error) {
	recs, err := s.Query(Request{
		Action:     ActionSelect,
		Collection: CollectionUsers,
		Params:     Params{"username": username},
	})
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}
	u := userFromRecord(recs[0])
	return &u, nil
}

func (s *Store) Videos() ([]Video, error) {
	recs, err := s.Query(Request{Action: ActionSelect, Collection: CollectionVideos})
	if err != nil {
		return nil, err
	}
	videos := make([]Video, 0, len(recs))
	for _, r := range recs {
		videos = append(videos, videoFromRecord(r))
	}
	return videos, nil
}

// VideoByPath returns nil when the catalog has no entry for the path.
func (s *Store) VideoByPath(path string) (*Video, error) {
	recs, err := s.Query(Request{
		Action:     ActionSelect,
		Collection: CollectionVideos,
		Params:     Params{"path": path},
	})
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}
	v := videoFromRecord(recs[0])
	return &v, nil
}

func (s *Store) AllFeedback() ([]Feedback, error) {
	recs, err := s.Query(Request{Action: ActionSelect, Collection: CollectionFeedback})
	if err != nil {
		return nil, err
	}
	return feedbackList(recs), nil
}

func (s *Store) FeedbackForUser(userID int64) ([]Feedback, error) {
	recs, err := s.Query(Request{
		Action:     ActionSelect,
		Collection: CollectionFeedback,
		Params:     Params{"user_id": userID},
	})
	if err != nil {
		return nil, err
	}
	return feedbackList(recs), nil
}

func feedbackList(recs []Record) []Feedback {
	out := make([]Feedback, 0, len(recs))
	for _, r := range recs {
		out = append(out, feedbackFromRecord(r))
	}
	return out
}

func (s *Store) History() ([]WatchRecord, error) {
	recs, err := s.Query(Request{Action: ActionSelect, Collection: CollectionWatchHistory})
	if err != nil {
		return nil, err
	}
	return watchList(recs), nil
}

func (s *Store) HistoryForUser(userID int64) ([]WatchRecord, error) {
	recs, err := s.Query(Request{
		Action:     ActionSelect,
		Collection: CollectionWatchHistory,
		Params:     Params{"user_id": userID},
	})
	if err != nil {
		return nil, err
	}
	return watchList(recs), nil
}

func watchList(recs []Record) []WatchRecord {
	out := make([]WatchRecord, 0, len(recs))
	for _, r := range recs {
		out = append(out, watchFromRecord(r))
	}
	return out
}

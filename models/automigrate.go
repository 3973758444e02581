package models

// AllTables returns a slice of all tables in the database.
func AllTables() []interface{} {
	return []interface{}{
		&Actor{},
		&Account{},
		&MediaAttachment{}, &MediaProcessingRequest{},
		&Notification{},
		&PreviewCard{}, &PreviewCardRequest{},
		&Status{}, &StatusEdit{}, &StatusMention{}, &StatusTag{},
		&StatusPoll{}, &StatusPollOption{}, &PollVote{},
		&StatusReprocessRequest{}, &StatusUpdateDeliveryRequest{},
		&Tag{},
		&Token{},
	}
}

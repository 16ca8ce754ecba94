package core

// DateColumn copies a normalized date from Source into Target.
type DateColumn struct {
	Source string
	Target string
}

// DateColumns lists every date column the exports are known to carry.
// Sources are matched against normalized (lowercase, trimmed) headers.
// Two sources feed profit_date; when both are present the later one wins.
var DateColumns = []DateColumn{
	{Source: "creation date", Target: "created_date"},
	{Source: "modified date", Target: "modified_date"},
	{Source: "dateofbirth", Target: "date_of_birth"},
	{Source: "joinedat", Target: "joined_at"},
	{Source: "createdat", Target: "created_at"},
	{Source: "cidexpiredat", Target: "cid_expired_at"},
	{Source: "cidpublishedat", Target: "cid_published_at"},
	{Source: "publishedat", Target: "published_at"},
	{Source: "registeredat", Target: "registered_at"},
	{Source: "발매일", Target: "release_date"},
	{Source: "profit date", Target: "profit_date"},
	{Source: "profitdate", Target: "profit_date"},
	{Source: "payoutdate", Target: "payout_date"},
	{Source: "requestdate", Target: "request_date"},
	{Source: "contractdate", Target: "contract_date"},
	{Source: "testperiod", Target: "test_period"},
	{Source: "dateupload", Target: "date_upload"},
	{Source: "dateuploadplpl", Target: "date_upload_plpl"},
}

package knowledge

// domainTerm is a curated term with a ranking weight tier.
type domainTerm struct {
	term   string
	weight float64
}

// domainTerms is the static table of domain vocabulary used as a ranking
// signal. Four weight tiers: 4 for transactional intent, 3 for academic
// core topics, 2 for campus life, 1 for generic school words. Terms are
// matched as lowercase substrings of the message.
var domainTerms = []domainTerm{
	// Tier 4: transactional / enrollment intent
	{"學費", 4}, {"報名", 4}, {"繳費", 4}, {"入學", 4}, {"招生", 4},
	{"獎學金", 4}, {"註冊", 4}, {"退費", 4}, {"申請", 4}, {"補助", 4},
	{"tuition", 4}, {"enroll", 4}, {"apply", 4}, {"scholarship", 4}, {"refund", 4},

	// Tier 3: academic core
	{"課程", 3}, {"考試", 3}, {"成績", 3}, {"上課", 3}, {"老師", 3},
	{"作業", 3}, {"課表", 3}, {"學分", 3}, {"補習", 3}, {"證書", 3},
	{"course", 3}, {"exam", 3}, {"grade", 3}, {"teacher", 3}, {"schedule", 3},

	// Tier 2: campus life
	{"社團", 2}, {"活動", 2}, {"宿舍", 2}, {"圖書館", 2}, {"餐廳", 2},
	{"交通", 2}, {"制服", 2}, {"假期", 2}, {"比賽", 2}, {"營隊", 2},
	{"club", 2}, {"activity", 2}, {"dormitory", 2}, {"library", 2}, {"holiday", 2},

	// Tier 1: generic school vocabulary
	{"學校", 1}, {"校區", 1}, {"同學", 1}, {"家長", 1}, {"學生", 1},
	{"年級", 1}, {"班級", 1}, {"開學", 1}, {"電話", 1}, {"地址", 1},
	{"school", 1}, {"campus", 1}, {"student", 1}, {"parent", 1}, {"contact", 1},
}

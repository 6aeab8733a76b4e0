package market

// Fixture data returned when the live source cannot supply enough rows.
// Values are static so the overview endpoints always render.

var indexFixtures = []IndexQuote{
	{Symbol: "^NSEI", Name: "NIFTY 50", Price: 25347.78, Change: 317.35, ChangePercent: 1.27},
	{Symbol: "^BSESN", Name: "BSE SENSEX", Price: 83269.58, Change: 1089.23, ChangePercent: 1.32},
	{Symbol: "^NSEBANK", Name: "NIFTY BANK", Price: 51324.85, Change: 567.41, ChangePercent: 1.12},
	{Symbol: "^CNXIT", Name: "NIFTY IT", Price: 37562.12, Change: 829.56, ChangePercent: 2.26},
	{Symbol: "^CNXAUTO", Name: "NIFTY AUTO", Price: 24365.45, Change: 412.78, ChangePercent: 1.72},
}

var trendingFixtures = []TrendingStock{
	{Symbol: "RELIANCE", Name: "Reliance Industries Ltd.", Price: 2956.85, Change: 42.60, ChangePercent: 1.46, Volume: 8524631},
	{Symbol: "TCS", Name: "Tata Consultancy Services Ltd.", Price: 3782.45, Change: 68.30, ChangePercent: 1.84, Volume: 2563142},
	{Symbol: "HDFCBANK", Name: "HDFC Bank Ltd.", Price: 1687.75, Change: 23.45, ChangePercent: 1.41, Volume: 7125648},
	{Symbol: "INFY", Name: "Infosys Ltd.", Price: 1524.30, Change: 31.80, ChangePercent: 2.13, Volume: 4256789},
	{Symbol: "ICICIBANK", Name: "ICICI Bank Ltd.", Price: 1052.65, Change: 18.90, ChangePercent: 1.83, Volume: 6853214},
	{Symbol: "HINDUNILVR", Name: "Hindustan Unilever Ltd.", Price: 2487.10, Change: 35.65, ChangePercent: 1.45, Volume: 1845632},
	{Symbol: "ITC", Name: "ITC Ltd.", Price: 456.70, Change: 8.35, ChangePercent: 1.86, Volume: 15234876},
	{Symbol: "SBIN", Name: "State Bank of India", Price: 768.45, Change: 14.25, ChangePercent: 1.89, Volume: 8456321},
	{Symbol: "BHARTIARTL", Name: "Bharti Airtel Ltd.", Price: 1284.55, Change: 21.40, ChangePercent: 1.69, Volume: 3562148},
	{Symbol: "KOTAKBANK", Name: "Kotak Mahindra Bank Ltd.", Price: 1876.30, Change: 32.75, ChangePercent: 1.78, Volume: 2985632},
}

var newsFixtures = []NewsItem{
	{
		Title:   "Wall Street: Big tech leads stocks relief rally after weekend tariff pause",
		Summary: "Market watchers are continuing to advise caution, especially amid signs that bond markets are under stress.",
		Source:  "Moneycontrol",
		Date:    "April 14, 2025",
		URL:     "#",
	},
	{
		Title:   "US index futures higher by 1.5 percent on temporary tariff relief on electronics",
		Summary: "While tech-heavy Nasdaq futures are higher, the tariff relief on electronics is short-lived, suggesting more changes could follow.",
		Source:  "Moneycontrol",
		Date:    "April 14, 2025",
		URL:     "#",
	},
	{
		Title:   "Portal to track and transfer dividend, unclaimed shares worth Rs 1 lakh crore by August",
		Summary: "The IEPFA along with capital market regulator Sebi is planning to hold 'Niveshak Shivirs' across major cities in the coming weeks.",
		Source:  "Moneycontrol",
		Date:    "April 14, 2025",
		URL:     "#",
	},
	{
		Title:   "RBI keeps repo rate unchanged at 6.5% for seventh consecutive time",
		Summary: "The Reserve Bank of India's Monetary Policy Committee voted to keep the repo rate unchanged at 6.5 percent.",
		Source:  "Moneycontrol",
		Date:    "April 13, 2025",
		URL:     "#",
	},
	{
		Title:   "IT stocks rally ahead of Q4 results, Infosys leads gains",
		Summary: "Information Technology stocks witnessed strong buying interest ahead of the Q4 results season.",
		Source:  "Moneycontrol",
		Date:    "April 13, 2025",
		URL:     "#",
	},
	{
		Title:   "India's retail inflation eases to 4.7% in March, within RBI target range",
		Summary: "India's retail inflation cooled to 4.7 percent in March, falling within the Reserve Bank of India's target range of 2-6 percent.",
		Source:  "Moneycontrol",
		Date:    "April 12, 2025",
		URL:     "#",
	},
	{
		Title:   "FIIs turn net buyers in April, pump in over Rs 12,000 crore in Indian equities",
		Summary: "Foreign Institutional Investors have turned net buyers in April after being net sellers in March.",
		Source:  "Moneycontrol",
		Date:    "April 12, 2025",
		URL:     "#",
	},
	{
		Title:   "Gold prices hit fresh all-time high on geopolitical tensions",
		Summary: "Gold prices surged to a new all-time high as investors sought safe-haven assets amid economic uncertainties.",
		Source:  "Moneycontrol",
		Date:    "April 11, 2025",
		URL:     "#",
	},
	{
		Title:   "Oil prices rise as Middle East tensions escalate, supply concerns grow",
		Summary: "Crude oil prices climbed as escalating tensions raised concerns about potential supply disruptions.",
		Source:  "Moneycontrol",
		Date:    "April 11, 2025",
		URL:     "#",
	},
	{
		Title:   "Reliance Industries hits new 52-week high on robust Q4 expectations",
		Summary: "Shares of Reliance Industries touched a fresh 52-week high on expectations of strong Q4 results.",
		Source:  "Moneycontrol",
		Date:    "April 10, 2025",
		URL:     "#",
	},
}

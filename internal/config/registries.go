package config

// Built-in registries covering the top 100 US public pension plans by AUM
// plus the phrase lists the scorer matches against. A config file can
// replace any of these lists entirely.

var defaultFunds = []string{
	// Mega plans (>$100B)
	"CalPERS", "CalSTRS", "New York State Common Retirement Fund",
	"New York City Retirement Systems", "Florida State Board of Administration",
	"Texas Teachers Retirement System", "New York State Teachers Retirement System",
	"State of Wisconsin Investment Board", "Washington State Investment Board",
	"Ohio Public Employees Retirement System",
	// Large plans ($50B-$100B)
	"North Carolina Retirement Systems", "New Jersey Division of Investment",
	"Virginia Retirement System", "Oregon Investment Council",
	"Michigan Retirement Systems", "Pennsylvania Public School Employees",
	"State Teachers Retirement System of Ohio", "Minnesota State Board of Investment",
	"Colorado PERA", "Massachusetts PRIM",
	// Mid-large ($25B-$50B)
	"Los Angeles County Employees Retirement", "LACERA",
	"Teacher Retirement System of Texas", "Maryland State Retirement",
	"Connecticut Retirement Plans", "Tennessee Consolidated Retirement System",
	"South Carolina Retirement System", "Iowa Public Employees Retirement System",
	"Los Angeles Fire and Police Pensions", "LAFPP",
	"Missouri State Employees Retirement System", "Kentucky Retirement Systems",
	"Arizona State Retirement System", "Indiana Public Retirement System",
	"San Francisco Employees Retirement System", "SFERS",
	"Illinois Teachers Retirement System", "Illinois State Board of Investment",
	"Illinois Municipal Retirement Fund", "State Universities Retirement System Illinois",
	"Hawaii Employees Retirement System", "New Mexico State Investment Council",
	"Oklahoma Teachers Retirement System", "Nevada Public Employees Retirement System",
	"Kansas Public Employees Retirement System", "Louisiana State Employees Retirement",
	"Utah Retirement Systems", "Rhode Island State Investment Commission",
	"Alabama Retirement Systems", "Mississippi Public Employees Retirement System",
	// Mid-size ($10B-$25B)
	"San Diego County Employees Retirement", "SDCERA",
	"Orange County Employees Retirement System", "OCERS",
	"Contra Costa County Employees Retirement", "CCCERA",
	"San Bernardino County Employees Retirement",
	"Alameda County Employees Retirement", "ACERA",
	"Sacramento County Employees Retirement",
	"Dallas Police and Fire Pension", "Houston Firefighters Relief and Retirement",
	"Teachers Retirement Association of Minnesota",
	"Public Employee Retirement System of Idaho",
	"Nebraska Investment Council", "Arkansas Teacher Retirement System",
	"West Virginia Investment Management Board",
	"Maine Public Employees Retirement System",
	"New Hampshire Retirement System", "Vermont Pension Investment Commission",
	"Wyoming Retirement System", "Montana Board of Investments",
	"North Dakota State Investment Board", "South Dakota Investment Council",
	"Alaska Permanent Fund", "Delaware Public Employees Retirement System",
	"District of Columbia Retirement Board",
	// Notable city/county plans
	"Chicago Teachers Pension Fund", "Chicago Municipal Employees",
	"Chicago Police Pension Fund", "Chicago Fire Pension Fund",
	"New York City Teachers Retirement System",
	"New York City Police Pension Fund", "New York City Fire Pension Fund",
	"Philadelphia Board of Pensions", "Detroit General Retirement System",
	"San Jose Federated City Employees Retirement",
	"Employees Retirement System of Texas", "ERS Texas",
	"Pennsylvania State Employees Retirement System", "SERS Pennsylvania",
	"Georgia Teachers Retirement System", "Employees Retirement System of Georgia",
	"Municipal Employees Annuity Benefit Fund Chicago",
	"Denver Employees Retirement Plan", "Jacksonville Police and Fire Pension",
	"Fresno County Employees Retirement", "Kern County Employees Retirement",
	"Tulare County Employees Retirement",
	"Ventura County Employees Retirement", "Santa Barbara County Employees Retirement",
	"Sonoma County Employees Retirement", "Marin County Employees Retirement",
	"San Mateo County Employees Retirement", "Stanislaus County Employees Retirement",
}

var defaultPensionGenerics = []string{
	"pension", "retirement system", "retirement fund", "public employees",
}

var defaultAssetClasses = []string{
	"private credit", "private equity", "venture capital",
	"private debt", "direct lending", "mezzanine",
	"growth equity", "buyout fund", "credit fund",
	"alternative credit", "infrastructure debt",
}

var defaultActionKeywords = []string{
	"allocate", "allocated", "allocation", "commit", "committed", "commitment",
	"increase", "increased", "raise", "raised", "approve", "approved",
	"invest", "invested", "investment", "deploy", "deployed",
	"new fund", "fund raise", "fundraise", "capital call",
	"co-invest", "co-investment", "mandate", "awarded",
	"target allocation", "strategic allocation", "rebalance",
	"overweight", "pacing plan", "vintage year",
	"emerging manager", "first-time fund",
}

var defaultExcludeKeywords = []string{
	"lawsuit", "scandal", "bankruptcy", "fraud",
	"pension crisis", "underfunded", "layoff",
}

var defaultNewsAPIQueries = []string{
	`pension "private credit" allocation`,
	`pension "private equity" commitment`,
	`pension "venture capital" investment`,
	`public pension fund new commitment`,
}

package ingestion

// DefaultSources is the standing crawl list for the SVU campus site,
// grouped roughly by section. The `campusai scrape` command uses this list
// when no explicit URLs are given.
var DefaultSources = []string{
	// Home and basic pages.
	"https://svuniversity.edu.in/",
	"https://svuniversity.edu.in/about/",

	// Leadership and administration.
	"https://svuniversity.edu.in/vice-chancellor/",
	"https://svuniversity.edu.in/rector/",
	"https://svuniversity.edu.in/registrar/",
	"https://svuniversity.edu.in/former-vice-chancellors/",
	"https://svuniversity.edu.in/former-rectors/",
	"https://svuniversity.edu.in/former-registars/",
	"https://svuniversity.edu.in/former-joint-registrars/",
	"https://svuniversity.edu.in/executive-council/",
	"https://svuniversity.edu.in/academic-senate/",
	"https://svuniversity.edu.in/finance-committee/",
	"https://svuniversity.edu.in/officers/",
	"https://svuniversity.edu.in/urc-members",
	"https://svuniversity.edu.in/deputy-registrars",
	"https://svuniversity.edu.in/aao",
	"https://svuniversity.edu.in/cpc-members",

	// Colleges and departments.
	"https://svuniversity.edu.in/college-of-arts/",
	"https://svuniversity.edu.in/college-principal-cfa/",
	"https://svuniversity.edu.in/sv-arts-department/",
	"https://svuniversity.edu.in/college-events-cfa/",
	"https://svuniversity.edu.in/college-staff-cfa/",
	"https://svuniversity.edu.in/college-of-science/",
	"https://svuniversity.edu.in/college-of-science-principal/",
	"https://svuniversity.edu.in/college-of-science-department/",
	"https://svuniversity.edu.in/events-achievements-cfs/",
	"https://svuniversity.edu.in/collage-of-science-administration/",
	"https://svuniversity.edu.in/college-of-engineering/",
	"https://svuniversity.edu.in/college-departments-cfe/",
	"https://svuniversity.edu.in/college-events-cfe/",
	"https://svuniversity.edu.in/collage-of-engineering-administration-staff/",
	"https://svuniversity.edu.in/about-cmcs/",
	"https://svuniversity.edu.in/collage-of-commerce/",
	"https://svuniversity.edu.in/college-departments-cmcs/",
	"https://svuniversity.edu.in/college-events-cm-cs/",
	"https://svuniversity.edu.in/collage-of-commerce-cmcs/",
	"https://svuniversity.edu.in/college-of-pharmaceutical-sciences/",
	"https://svuniversity.edu.in/collage-of-pharmacy/",
	"https://svuniversity.edu.in/college-departments-cfp/",
	"https://svuniversity.edu.in/college-events-cfp/",
	"https://svuniversity.edu.in/collage-of-pharmacy-administration/",
	"https://svuniversity.edu.in/collage-of-pharmacy-sif-report/",

	// Centres and facilities.
	"https://svuniversity.edu.in/advanced-centre-for-atmospheric-sciences",
	"https://svuniversity.edu.in/bioinformatics-infrastructure-facility-bif",
	"https://svuniversity.edu.in/cseap-studies-center",
	"https://svuniversity.edu.in/computer-center/",
	"https://svuniversity.edu.in/cerdat/",
	"https://svuniversity.edu.in/doa/",
	"https://svuniversity.edu.in/dst-purse-centre-3",
	"https://svuniversity.edu.in/mmttc-center/",
	"https://svuniversity.edu.in/ori-center",
	"https://svuniversity.edu.in/usi-center",

	// Academics.
	"https://svuniversity.edu.in/academic-programme/",
	"https://svuniversity.edu.in/professional-courses/",
	"https://svuniversity.edu.in/degree-course-syllabus/",
	"https://svuniversity.edu.in/pg-course-syllabus/",

	// Deans.
	"https://svuniversity.edu.in/dean-development",
	"https://svuniversity.edu.in/dean-rd",
	"https://svuniversity.edu.in/dean-commerce-management/",
	"https://svuniversity.edu.in/dean-cdc",
	"https://svuniversity.edu.in/dean-international-relations",
	"https://svuniversity.edu.in/dean-it",
	"https://svuniversity.edu.in/dean-faculty-of-sciences",
	"https://svuniversity.edu.in/dean-of-examinations/",

	// Research and affiliation.
	"https://svuniversity.edu.in/research/",
	"https://svuniversity.edu.in/college-affiliation/",
	"https://svuniversity.edu.in/control-of-examination/",

	// Campus facilities and services.
	"https://svuniversity.edu.in/facilities/",
	"https://svuniversity.edu.in/library/",
	"https://svuniversity.edu.in/stadium/",
	"https://svuniversity.edu.in/health-center/",
	"https://svuniversity.edu.in/womens-hostels/",
	"https://svuniversity.edu.in/svu-guest-house/",
	"https://svuniversity.edu.in/campus-school/",
	"https://svuniversity.edu.in/annyamaya-bhavan/",
	"https://svuniversity.edu.in/internet-facility/",
	"https://svuniversity.edu.in/s-v-university-post-office/",
	"https://svuniversity.edu.in/labs/",
	"https://svuniversity.edu.in/rs-hostel",
	"https://svuniversity.edu.in/open-air-theatre/",

	// Student services and activities.
	"https://svuniversity.edu.in/nss/",
	"https://svuniversity.edu.in/ncc",
	"https://svuniversity.edu.in/day-care-centre/",
	"https://svuniversity.edu.in/sbi-svu-campus-branch/",
	"https://svuniversity.edu.in/gallery/",
	"https://svuniversity.edu.in/sports-games/",

	// Quality assurance.
	"https://svuniversity.edu.in/iqac/",
	"https://svuniversity.edu.in/naac",
	"https://svuniversity.edu.in/iiqa/",
	"https://svuniversity.edu.in/ssr",
	"https://svuniversity.edu.in/dvv/",
}

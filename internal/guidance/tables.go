package guidance

var issues = []Issue{
	{
		Code:    "air-quality",
		Label:   "Air Quality / Mold / VOCs",
		Summary: "Document moisture sources, sampling data, and ventilation performance. Reference ASHRAE 62.1/62.2 ventilation targets and OSHA mold guidance when worker exposure is relevant.",
		EvidencePoints: []string{
			"Humidity readings above 60% RH or sustained dampness support mold concerns.",
			"Photographs of visible mold growth, water intrusion, or damaged drywall strengthen the narrative.",
			"Include laboratory findings for spore counts, VOC levels, or particulate analysis if available.",
		},
		Regulations: []Regulation{
			{
				Title: "EPA Mold Remediation in Schools and Commercial Buildings",
				URL:   "https://www.epa.gov/mold/mold-remediation-schools-and-commercial-buildings-guide",
			},
			{
				Title: "ASHRAE Standard 62.2 – Ventilation and Acceptable Indoor Air Quality",
				URL:   "https://www.ashrae.org/technical-resources/standards-and-guidelines",
			},
		},
	},
	{
		Code:    IssueWaterQuality,
		Label:   "Water Quality / Contamination",
		Summary: "Report contaminant concentrations, sampling dates, and EPA Maximum Contaminant Level (MCL) comparisons. Note any boil water notices or municipal advisories.",
		EvidencePoints: []string{
			"Include water sampling laboratory results and chain of custody if available.",
			"Photographs of discolored water, residue, or plumbing corrosion help illustrate severity.",
			"Document odors, taste issues, or health symptoms experienced by residents.",
		},
		Regulations: []Regulation{
			{Title: "Safe Drinking Water Act (40 CFR Parts 141-149)", URL: "https://www.epa.gov/sdwa"},
			{Title: "EPA Lead and Copper Rule (40 CFR Part 141 Subpart I)", URL: "https://www.epa.gov/dwreginfo/lead-and-copper-rule"},
		},
	},
	{
		Code:    "hvac-ventilation",
		Label:   "HVAC / Ventilation Issues",
		Summary: "Describe ventilation rates, filter performance, and maintenance history. Compare airflow measurements to ASHRAE or local building code requirements.",
		EvidencePoints: []string{
			"Include test and balance reports or airflow readings from supply and return vents.",
			"Provide filter replacement logs and photos of clogged filters or blocked vents.",
			"Summarize comfort complaints, carbon dioxide trends, or occupancy impacts.",
		},
		Regulations: []Regulation{
			{Title: "International Mechanical Code §403 (Ventilation)", URL: "https://codes.iccsafe.org"},
		},
	},
	{
		Code:    "lead-asbestos",
		Label:   "Lead / Asbestos / Hazardous Materials",
		Summary: "Highlight accredited inspection results, abatement requirements, and occupant protection plans. Reference HUD/EPA disclosure rules for pre-1978 housing.",
		EvidencePoints: []string{
			"Attach certified laboratory reports showing lead paint or asbestos concentrations.",
			"Document containment failures, friable material, or dust wipe exceedances.",
			"Describe vulnerable populations (children under six, pregnant residents) impacted.",
		},
		Regulations: []Regulation{
			{Title: "EPA Renovation, Repair, and Painting Rule (40 CFR Part 745 Subpart E)", URL: "https://www.epa.gov/lead"},
			{Title: "AHERA Asbestos Requirements (40 CFR Part 763)", URL: "https://www.epa.gov/asbestos/asbestos-laws-and-regulations"},
		},
	},
	{
		Code:    "utility-access",
		Label:   "Utility Access / Service Issues",
		Summary: "Document service interruptions, billing disputes, or unsafe utility infrastructure. Reference state public utility commission rules for response times and reliability.",
		EvidencePoints: []string{
			"Capture outage logs, communication records, and meter readings.",
			"Show invoices or notices reflecting disputed charges or shutoff threats.",
			"Document any medical baseline customers requiring uninterrupted service.",
		},
		Regulations: []Regulation{
			{Title: "Public Utility Commission customer service standards (state-specific)", URL: "https://www.naruc.org/about-naruc/regulatory-commissions"},
		},
	},
}

var recipients = []Recipient{
	{
		Code:  "hoa",
		Label: "Homeowners Association (HOA)",
		Tone:  "professional and cooperative",
		Obligations: []string{
			"HOAs must enforce CC&Rs consistently and maintain common areas affecting health and safety.",
			"Many states adopt the Uniform Common Interest Ownership Act (UCIOA) which requires prompt action on hazards.",
			"Fair Housing Act protections apply when indoor environmental issues disproportionately impact protected classes.",
		},
		RequestedActions: []string{
			"Schedule inspection of common infrastructure affecting the unit(s).",
			"Provide written remediation plan with timelines and responsible vendors.",
			"Reimburse residents for out-of-pocket mitigation costs when delays are attributable to the HOA.",
		},
	},
	{
		Code:  "property-mgmt",
		Label: "Property Management / Landlord",
		Tone:  "firm and reference habitability statutes",
		Obligations: []string{
			"Landlords must maintain habitable premises under the implied warranty of habitability.",
			"Many jurisdictions require response to essential service complaints within 24–72 hours.",
			"Retaliation for reporting health hazards is prohibited under most landlord-tenant acts.",
		},
		RequestedActions: []string{
			"Acknowledge the complaint in writing and provide inspection schedule.",
			"Engage licensed contractors for assessment and remediation.",
			"Offer temporary relocation support if the dwelling is unsafe during repairs.",
		},
	},
	{
		Code:  "utility",
		Label: "Utility Company",
		Tone:  "escalatory yet collaborative",
		Obligations: []string{
			"Utilities are regulated by state Public Utility Commissions (PUCs) and must follow outage communication protocols.",
			"Critical care and medical baseline customers are entitled to prioritized restoration.",
			"Billing disputes must be investigated before disconnection when raised in good faith.",
		},
		RequestedActions: []string{
			"Provide written confirmation of the investigation timeline and responsible department.",
			"Issue credit adjustments or service restoration where warranted.",
			"Share contingency plans for vulnerable residents during extended outages.",
		},
	},
	{
		Code:  "local-govt",
		Label: "Local Government / City Council",
		Tone:  "civic and data-driven",
		Obligations: []string{
			"Municipal code enforcement divisions can cite properties that violate property maintenance codes.",
			"Local health departments may issue orders to abate indoor environmental hazards.",
			"City councils track systemic issues and can escalate to special hearings or funding programs.",
		},
		RequestedActions: []string{
			"Initiate inspection under applicable municipal code sections.",
			"Coordinate with public health officials to evaluate community-level risk.",
			"Consider allocating resources or grants to resolve infrastructure deficiencies.",
		},
	},
	{
		Code:  "state-agency",
		Label: "State Environmental/Health Agency",
		Tone:  "formal and evidence-heavy",
		Obligations: []string{
			"State environmental quality and health departments enforce state statutes and EPA-delegated programs.",
			"Agencies maintain complaint hotlines for drinking water, mold, radon, and lead.",
			"They can compel responsible parties to submit corrective action plans and progress reports.",
		},
		RequestedActions: []string{
			"Open a case number and assign investigator contact information.",
			"Review submitted data and schedule on-site sampling if needed.",
			"Issue enforcement orders or guidance to the HOA/utility/owner as appropriate.",
		},
	},
	{
		Code:  "federal-agency",
		Label: "Federal Agency (EPA, HUD, etc.)",
		Tone:  "formal and compliant with federal reporting procedures",
		Obligations: []string{
			"Federal agencies oversee national programs such as the Safe Drinking Water Act, HUD Healthy Homes, and OSHA worker safety standards.",
			"They rely on detailed documentation to prioritize enforcement actions.",
			"Whistleblower protections may apply when reporting violations of federal law.",
		},
		RequestedActions: []string{
			"Confirm receipt and advise on required federal forms or supplemental data.",
			"Coordinate with delegated state agencies to ensure rapid response.",
			"Provide technical assistance resources and enforcement timeline expectations.",
		},
	},
	{
		Code:  "nonprofit",
		Label: "Advocacy Nonprofit / Legal Aid",
		Tone:  "collaborative and impact-focused",
		Obligations: []string{
			"Nonprofits can offer strategic guidance, legal support, and media engagement.",
			"Documented cases help organizations demonstrate trends and secure funding.",
			"They typically require consent to share resident stories or data.",
		},
		RequestedActions: []string{
			"Review attached evidence and advise on strategic next steps.",
			"Support outreach to regulators, media, or pro bono counsel.",
			"Provide template filings or scripts for additional resident testimonies.",
		},
	},
}

var escalationStyles = []EscalationStyle{
	{
		Code:     "initial",
		Label:    "Initial Request",
		Guidance: "Open with appreciation, describe the issue succinctly, and request confirmation of receipt. Offer collaboration and avoid accusatory language.",
	},
	{
		Code:     EscalationProfessional,
		Label:    "Professional Follow-up",
		Guidance: "Reference prior communications, cite relevant obligations, and request a written action plan with deadlines.",
	},
	{
		Code:     "formal",
		Label:    "Formal Complaint",
		Guidance: "Cite statutes, attach evidence, and clearly state expectations for remediation timelines. Note that the correspondence will be retained for potential enforcement.",
	},
	{
		Code:     "legal",
		Label:    "Legal Notice",
		Guidance: "State that failure to act may result in legal remedies, reference counsel if retained, and provide a firm deadline for compliance.",
	},
}

var urgencies = []Urgency{
	{Code: "low", Guidance: "Issue affects quality of life but does not present an immediate health risk. Request action within 14 days."},
	{Code: "medium", Guidance: "Residents experience health or comfort impacts. Request action within 7 days and ask for interim mitigation steps."},
	{Code: "high", Guidance: "Significant health impacts or ongoing code violations. Request action within 48 hours and emphasize duty of care."},
	{Code: "emergency", Guidance: "Immediate threat to life or property. Demand urgent response (24 hours or less) and consider temporary relocation or emergency services."},
}

var stateNames = []string{"California", "Florida", "New York", "Texas"}

var stateRegulations = map[string][]Citation{
	"California": {
		{
			Citation: "California Health & Safety Code §17920.3",
			Summary:  "Defines substandard building conditions including dampness, mold, and inadequate sanitation.",
		},
		{
			Citation: "California Civil Code §1941.1",
			Summary:  "Lists landlord obligations to maintain habitable dwellings, including plumbing, heating, and weatherproofing.",
		},
		{
			Citation: "California Public Utilities Code §777-779",
			Summary:  "Requires utilities to provide notice and protections before service disconnection.",
		},
	},
	"New York": {
		{
			Citation: "NYC Administrative Code §27-2017.3",
			Summary:  "Classifies indoor mold hazards and timelines for remediation depending on apartment size.",
		},
		{
			Citation: "New York Public Health Law §1110",
			Summary:  "Authorizes the health department to address public health nuisances including contaminated water.",
		},
	},
	"Texas": {
		{
			Citation: "Texas Property Code §92.052",
			Summary:  "Requires landlords to repair conditions that materially affect the health or safety of tenants.",
		},
		{
			Citation: "Texas Administrative Code Title 25 Part 1 Chapter 295",
			Summary:  "Details mold assessment and remediation licensing and notification requirements.",
		},
	},
	"Florida": {
		{
			Citation: "Florida Statutes §83.51",
			Summary:  "Obligates landlords to maintain property in compliance with applicable building, housing, and health codes.",
		},
		{
			Citation: "Florida Administrative Code Rule 62-550",
			Summary:  "Implements federal drinking water regulations and reporting requirements.",
		},
	},
}

var federalReferences = []Citation{
	{
		Citation: "Fair Housing Act (42 U.S.C. §3601 et seq.)",
		Summary:  "Prohibits discriminatory housing practices, including failure to address hazards impacting protected classes.",
	},
	{
		Citation: "Americans with Disabilities Act Title II",
		Summary:  "Public entities must ensure programs and services are accessible, including reasonable accommodations for environmental sensitivities.",
	},
	{
		Citation: "Safe Drinking Water Act",
		Summary:  "Establishes national standards for public drinking water systems and enforcement mechanisms.",
	},
}

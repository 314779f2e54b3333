package taxonomy

import "github.com/bcnelson/styla-directory/internal/domain"

func primary(id, name, display string, category domain.Category) domain.Tag {
	return domain.Tag{ID: id, Name: name, DisplayName: display, Category: category, Type: domain.TagTypePrimary}
}

func subtag(id, name, display string, category domain.Category, parent string) domain.Tag {
	return domain.Tag{ID: id, Name: name, DisplayName: display, Category: category, Type: domain.TagTypeSubtag, ParentTagID: parent}
}

func optional(id, name, display string) domain.Tag {
	return domain.Tag{ID: id, Name: name, DisplayName: display, Category: domain.CategoryOptional, Type: domain.TagTypeOptional}
}

// predefined is the seed catalog. Order matters: it is the order fallback
// results and child-subtag listings are returned in.
var predefined = []domain.Tag{
	// Hair stylist (001xxx)
	primary("001001", "hair_stylist", "Hair Stylist", domain.CategoryHairStylist),
	subtag("001002", "haircut", "Haircut", domain.CategoryHairStylist, "001001"),
	subtag("001003", "hair_color", "Hair Color", domain.CategoryHairStylist, "001001"),
	subtag("001004", "blowout", "Blowout", domain.CategoryHairStylist, "001001"),
	subtag("001005", "balayage", "Balayage", domain.CategoryHairStylist, "001001"),
	subtag("001006", "highlights", "Highlights", domain.CategoryHairStylist, "001001"),
	subtag("001007", "color_correction", "Color Correction", domain.CategoryHairStylist, "001001"),
	subtag("001008", "root_touch_up", "Root Touch-Up", domain.CategoryHairStylist, "001001"),
	subtag("001009", "toner_gloss", "Toner/Gloss", domain.CategoryHairStylist, "001001"),
	subtag("001010", "curly_hair_specialist", "Curly Hair Specialist", domain.CategoryHairStylist, "001001"),
	subtag("001011", "textured_hair", "Textured Hair", domain.CategoryHairStylist, "001001"),
	subtag("001012", "short_haircuts", "Short Haircuts", domain.CategoryHairStylist, "001001"),
	subtag("001013", "long_haircuts", "Long Haircuts", domain.CategoryHairStylist, "001001"),
	subtag("001014", "hair_transformation", "Hair Transformation", domain.CategoryHairStylist, "001001"),
	subtag("001015", "healthy_hair_focused", "Healthy Hair Focused", domain.CategoryHairStylist, "001001"),
	subtag("001016", "bridal_hair", "Bridal Hair", domain.CategoryHairStylist, "001001"),
	subtag("001017", "updos_event_hair", "Updos / Event Hair", domain.CategoryHairStylist, "001001"),
	subtag("001018", "precision_cutting", "Precision Cutting", domain.CategoryHairStylist, "001001"),
	subtag("001019", "mens_haircuts", "Men's Haircuts", domain.CategoryHairStylist, "001001"),
	subtag("001020", "kids_haircuts", "Kid's Haircuts", domain.CategoryHairStylist, "001001"),
	subtag("001021", "extensions", "Extensions", domain.CategoryHairStylist, "001001"),

	// Makeup artist (002xxx)
	primary("002001", "makeup_artist", "Makeup Artist", domain.CategoryMakeupArtist),
	subtag("002002", "soft_glam", "Soft Glam", domain.CategoryMakeupArtist, "002001"),
	subtag("002003", "full_glam", "Full Glam", domain.CategoryMakeupArtist, "002001"),
	subtag("002004", "natural_makeup", "Natural Makeup", domain.CategoryMakeupArtist, "002001"),
	subtag("002005", "bridal_makeup", "Bridal Makeup", domain.CategoryMakeupArtist, "002001"),
	subtag("002006", "editorial_makeup", "Editorial Makeup", domain.CategoryMakeupArtist, "002001"),
	subtag("002007", "photoshoot_makeup", "Photoshoot Makeup", domain.CategoryMakeupArtist, "002001"),
	subtag("002008", "airbrush_makeup", "Airbrush Makeup", domain.CategoryMakeupArtist, "002001"),
	subtag("002009", "event_makeup", "Event Makeup", domain.CategoryMakeupArtist, "002001"),
	subtag("002010", "prom_makeup", "Prom Makeup", domain.CategoryMakeupArtist, "002001"),
	subtag("002011", "makeup_lessons", "Makeup Lessons", domain.CategoryMakeupArtist, "002001"),
	subtag("002012", "mature_skin", "Mature Skin", domain.CategoryMakeupArtist, "002001"),
	subtag("002013", "makeup_for_photos_video", "Makeup for Photos / Video", domain.CategoryMakeupArtist, "002001"),
	subtag("002014", "on_location_services", "On-Location Services", domain.CategoryMakeupArtist, "002001"),
	subtag("002015", "strip_lashes_included", "Strip Lashes Included", domain.CategoryMakeupArtist, "002001"),
	subtag("002016", "touch_up_kits_provided", "Touch-Up Kits Provided", domain.CategoryMakeupArtist, "002001"),

	// Bridal (003xxx)
	primary("003001", "bridal", "Bridal", domain.CategoryBridal),
	subtag("003002", "bridal_hair", "Bridal Hair", domain.CategoryBridal, "003001"),
	subtag("003003", "bridal_makeup", "Bridal Makeup", domain.CategoryBridal, "003001"),
	subtag("003004", "bridal_trial", "Bridal Trial", domain.CategoryBridal, "003001"),
	subtag("003005", "wedding_party_hair", "Wedding Party Hair", domain.CategoryBridal, "003001"),
	subtag("003006", "wedding_party_makeup", "Wedding Party Makeup", domain.CategoryBridal, "003001"),
	subtag("003007", "on_site_services", "On-Site Services", domain.CategoryBridal, "003001"),
	subtag("003008", "destination_weddings", "Destination Weddings", domain.CategoryBridal, "003001"),
	subtag("003009", "elopements", "Elopements", domain.CategoryBridal, "003001"),
	subtag("003010", "morning_of_coordination", "Morning-Of Coordination", domain.CategoryBridal, "003001"),
	subtag("003011", "luxury_bridal_packages", "Luxury Bridal Packages", domain.CategoryBridal, "003001"),
	subtag("003012", "male_grooming_for_wedding", "Male Grooming for Wedding", domain.CategoryBridal, "003001"),
	subtag("003013", "touch_ups_or_full_day_rate", "Touch-Ups or Full Day Rate", domain.CategoryBridal, "003001"),
	subtag("003014", "group_pricing_options", "Group Pricing Options", domain.CategoryBridal, "003001"),

	// Barber (004xxx)
	primary("004001", "barber", "Barber", domain.CategoryBarber),
	subtag("004002", "taper_fade", "Taper Fade", domain.CategoryBarber, "004001"),
	subtag("004003", "skin_fade", "Skin Fade", domain.CategoryBarber, "004001"),
	subtag("004004", "beard_trim", "Beard Trim", domain.CategoryBarber, "004001"),
	subtag("004005", "razor_line_up", "Razor Line-Up", domain.CategoryBarber, "004001"),
	subtag("004006", "hot_towel_shave", "Hot Towel Shave", domain.CategoryBarber, "004001"),
	subtag("004007", "buzz_cut", "Buzz Cut", domain.CategoryBarber, "004001"),
	subtag("004008", "classic_scissor_cut", "Classic Scissor Cut", domain.CategoryBarber, "004001"),
	subtag("004009", "neck_cleanup", "Neck Cleanup", domain.CategoryBarber, "004001"),
	subtag("004010", "mens_haircuts", "Men's Haircuts", domain.CategoryBarber, "004001"),
	subtag("004011", "kids_cuts", "Kid's Cuts", domain.CategoryBarber, "004001"),
	subtag("004012", "walk_ins_welcome", "Walk-Ins Welcome", domain.CategoryBarber, "004001"),
	subtag("004013", "appointments_only", "Appointments Only", domain.CategoryBarber, "004001"),
	subtag("004014", "barbershop_vibe", "Barbershop Vibe", domain.CategoryBarber, "004001"),
	subtag("004015", "modern_barbering", "Modern Barbering", domain.CategoryBarber, "004001"),

	// Nails (005xxx)
	primary("005001", "nails", "Nails", domain.CategoryNails),
	subtag("005002", "gel_manicure", "Gel Manicure", domain.CategoryNails, "005001"),
	subtag("005003", "regular_polish", "Regular Polish", domain.CategoryNails, "005001"),
	subtag("005004", "biab_nails", "BIAB Nails", domain.CategoryNails, "005001"),
	subtag("005005", "acrylic_nails", "Acrylic Nails", domain.CategoryNails, "005001"),
	subtag("005006", "dip_powder", "Dip Powder", domain.CategoryNails, "005001"),
	subtag("005007", "structured_gel", "Structured Gel", domain.CategoryNails, "005001"),
	subtag("005008", "nail_art", "Nail Art", domain.CategoryNails, "005001"),
	subtag("005009", "minimal_nails", "Minimal Nails", domain.CategoryNails, "005001"),
	subtag("005010", "press_ons", "Press-Ons", domain.CategoryNails, "005001"),
	subtag("005011", "french_tips", "French Tips", domain.CategoryNails, "005001"),
	subtag("005012", "bridal_nails", "Bridal Nails", domain.CategoryNails, "005001"),
	subtag("005013", "short_nails", "Short Nails", domain.CategoryNails, "005001"),
	subtag("005014", "long_nails", "Long Nails", domain.CategoryNails, "005001"),
	subtag("005015", "nail_repair", "Nail Repair", domain.CategoryNails, "005001"),
	subtag("005016", "manicure_pedicure_packages", "Manicure + Pedicure Packages", domain.CategoryNails, "005001"),
	subtag("005017", "mobile_services_available", "Mobile Services Available", domain.CategoryNails, "005001"),

	// Lashes (006xxx)
	primary("006001", "lashes", "Lashes", domain.CategoryLashes),
	subtag("006002", "classic", "Classic", domain.CategoryLashes, "006001"),
	subtag("006003", "hybrid", "Hybrid", domain.CategoryLashes, "006001"),
	subtag("006004", "volume", "Volume", domain.CategoryLashes, "006001"),
	subtag("006005", "mega_volume", "Mega Volume", domain.CategoryLashes, "006001"),
	subtag("006006", "lash_lift", "Lash Lift", domain.CategoryLashes, "006001"),
	subtag("006007", "lash_tint", "Lash Tint", domain.CategoryLashes, "006001"),
	subtag("006008", "bottom_lashes", "Bottom Lashes", domain.CategoryLashes, "006001"),
	subtag("006009", "wispy_strip_look", "Wispy / Strip-Look", domain.CategoryLashes, "006001"),
	subtag("006010", "natural_style", "Natural Style", domain.CategoryLashes, "006001"),
	subtag("006011", "dramatic_style", "Dramatic Style", domain.CategoryLashes, "006001"),
	subtag("006012", "color_lashes", "Color Lashes", domain.CategoryLashes, "006001"),
	subtag("006013", "patch_test_required", "Patch Test Required", domain.CategoryLashes, "006001"),
	subtag("006014", "sensitive_adhesive", "Sensitive Adhesive", domain.CategoryLashes, "006001"),
	subtag("006015", "lash_aftercare_kits", "Lash Aftercare Kits", domain.CategoryLashes, "006001"),
	subtag("006016", "bridal_lashes", "Bridal Lashes", domain.CategoryLashes, "006001"),

	// Aesthetician (007xxx)
	primary("007001", "aesthetician", "Aesthetician / Skin", domain.CategoryAesthetician),
	subtag("007002", "custom_facials", "Custom Facials", domain.CategoryAesthetician, "007001"),
	subtag("007003", "acne_treatments", "Acne Treatments", domain.CategoryAesthetician, "007001"),
	subtag("007004", "anti_aging", "Anti-Aging", domain.CategoryAesthetician, "007001"),
	subtag("007005", "dermaplane", "Dermaplane", domain.CategoryAesthetician, "007001"),
	subtag("007006", "hydrafacial", "Hydrafacial", domain.CategoryAesthetician, "007001"),
	subtag("007007", "microneedling", "Microneedling", domain.CategoryAesthetician, "007001"),
	subtag("007008", "led_therapy", "LED Therapy", domain.CategoryAesthetician, "007001"),
	subtag("007009", "extractions", "Extractions", domain.CategoryAesthetician, "007001"),
	subtag("007010", "high_frequency", "High Frequency", domain.CategoryAesthetician, "007001"),
	subtag("007011", "chemical_peels", "Chemical Peels", domain.CategoryAesthetician, "007001"),
	subtag("007012", "brow_wax_tint", "Brow Wax & Tint", domain.CategoryAesthetician, "007001"),
	subtag("007013", "lash_lift_tint", "Lash Lift & Tint", domain.CategoryAesthetician, "007001"),
	subtag("007014", "skin_consultations", "Skin Consultations", domain.CategoryAesthetician, "007001"),
	subtag("007015", "sensitive_skin_friendly", "Sensitive Skin Friendly", domain.CategoryAesthetician, "007001"),
	subtag("007016", "natural_organic_products", "Natural/Organic Products", domain.CategoryAesthetician, "007001"),
	subtag("007017", "mens_skincare_services", "Men's Skincare Services", domain.CategoryAesthetician, "007001"),

	// Optional filters (008xxx)
	optional("008001", "on_location_available", "On-Location Available"),
	optional("008002", "in_studio_only", "In-Studio Only"),
	optional("008003", "mobile_services", "Mobile Services"),
	optional("008004", "kid_friendly", "Kid-Friendly"),
	optional("008005", "lgbtq_friendly", "LGBTQ+ Friendly"),
	optional("008006", "multilingual", "Multilingual"),
	optional("008007", "same_day_appointments", "Same-Day Appointments"),
	optional("008008", "luxury_pricing", "Luxury Pricing"),
	optional("008009", "budget_friendly", "Budget-Friendly"),
	optional("008010", "accepts_walk_ins", "Accepts Walk-Ins"),
	optional("008011", "group_rates", "Group Rates"),
	optional("008012", "packages_available", "Packages Available"),
	optional("008013", "trial_services_offered", "Trial Services Offered"),
	optional("008014", "travel_fees_may_apply", "Travel Fees May Apply"),
}

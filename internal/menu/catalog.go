package menu

import (
	"fmt"
	"slices"
	"strconv"
)

// Codes of the parent menus. Leaf codes are listed in DefaultCatalog.
const (
	CodeServices     = 100
	CodeMedication   = 200
	CodeAdvice       = 300
	CodeMoreSymptoms = 301
)

// Category is one node of the menu tree. A category with Children is a
// parent and answers with a sub-menu; any other category is a leaf and
// answers with its advice text.
type Category struct {
	Code        int
	Title       string
	Description string
	Keywords    []string
	Advice      []string
	Caution     string
	Children    []int
	Prompt      *Prompt
}

// Prompt holds the sub-menu copy of a parent category.
type Prompt struct {
	Header       string
	Body         string
	ButtonText   string
	SectionTitle string
}

// IsParent reports whether selecting the category opens a sub-menu.
func (c Category) IsParent() bool { return len(c.Children) > 0 }

// ID is the opaque selection id used for this category in buttons and lists.
func (c Category) ID() string { return strconv.Itoa(c.Code) }

// Command is the word advertised in text menus for categories that cannot be
// reached by number.
func (c Category) Command() string {
	if len(c.Keywords) == 0 {
		return ""
	}
	return c.Keywords[0]
}

// NumericRange bounds the codes a user may select by typing a number.
type NumericRange struct {
	Min, Max int
}

func (r NumericRange) Contains(n int) bool { return n >= r.Min && n <= r.Max }

// Catalog is the immutable menu table. It is built once at start-up and
// shared read-only by every request.
type Catalog struct {
	Name    string
	Numeric NumericRange

	top    []int
	byCode map[int]Category
	parent map[int]int
	order  []int // ascending codes, keyword priority order
}

// NewCatalog indexes categories and validates the tree.
func NewCatalog(name string, numeric NumericRange, top []int, categories []Category) (*Catalog, error) {
	c := &Catalog{
		Name:    name,
		Numeric: numeric,
		top:     slices.Clone(top),
		byCode:  make(map[int]Category, len(categories)),
		parent:  make(map[int]int),
	}
	for _, cat := range categories {
		if _, dup := c.byCode[cat.Code]; dup {
			return nil, fmt.Errorf("duplicate category code %d", cat.Code)
		}
		c.byCode[cat.Code] = cat
		c.order = append(c.order, cat.Code)
	}
	slices.Sort(c.order)
	for _, cat := range categories {
		for _, child := range cat.Children {
			c.parent[child] = cat.Code
		}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the invariants the classifier and builder rely on.
func (c *Catalog) Validate() error {
	if len(c.top) == 0 {
		return fmt.Errorf("catalog %q has no top-level categories", c.Name)
	}
	for _, code := range c.top {
		if _, ok := c.byCode[code]; !ok {
			return fmt.Errorf("top-level category %d is not defined", code)
		}
	}
	for _, code := range c.order {
		cat := c.byCode[code]
		if cat.Title == "" {
			return fmt.Errorf("category %d has no title", code)
		}
		if len(cat.Keywords) == 0 {
			return fmt.Errorf("category %d has no keywords", code)
		}
		if cat.IsParent() && cat.Prompt == nil {
			return fmt.Errorf("parent category %d has no prompt", code)
		}
		if !cat.IsParent() && len(cat.Advice) == 0 {
			return fmt.Errorf("leaf category %d has no advice", code)
		}
		for _, child := range cat.Children {
			if _, ok := c.byCode[child]; !ok {
				return fmt.Errorf("category %d lists unknown child %d", code, child)
			}
		}
	}
	for n := c.Numeric.Min; n <= c.Numeric.Max; n++ {
		if _, ok := c.byCode[n]; !ok {
			return fmt.Errorf("numeric option %d has no category", n)
		}
	}
	return c.validateReachable()
}

// validateReachable requires every offered option outside the numeric range
// to be reachable by typing its advertised command.
func (c *Catalog) validateReachable() error {
	offered := slices.Clone(c.top)
	for _, code := range c.order {
		offered = append(offered, c.byCode[code].Children...)
	}

	cl := NewClassifier(c)
	for _, code := range offered {
		if c.Numeric.Contains(code) {
			continue
		}
		cmd := c.byCode[code].Command()
		if got := cl.Classify(Normalize(cmd)); !got.HasCode() || got.Code != code {
			return fmt.Errorf("category %d: command %q classifies as %v", code, cmd, got)
		}
	}
	return nil
}

// Lookup returns the category for code. Unknown codes report false.
func (c *Catalog) Lookup(code int) (Category, bool) {
	cat, ok := c.byCode[code]
	return cat, ok
}

// Top returns the top-level parents in menu order.
func (c *Catalog) Top() []Category {
	out := make([]Category, 0, len(c.top))
	for _, code := range c.top {
		out = append(out, c.byCode[code])
	}
	return out
}

// Children returns the categories listed under a parent, in menu order.
func (c *Catalog) Children(cat Category) []Category {
	out := make([]Category, 0, len(cat.Children))
	for _, code := range cat.Children {
		out = append(out, c.byCode[code])
	}
	return out
}

// Parent returns the parent of code, if it has one.
func (c *Catalog) Parent(code int) (Category, bool) {
	p, ok := c.parent[code]
	if !ok {
		return Category{}, false
	}
	return c.Lookup(p)
}

// Categories returns every category in ascending code order.
func (c *Catalog) Categories() []Category {
	out := make([]Category, 0, len(c.order))
	for _, code := range c.order {
		out = append(out, c.byCode[code])
	}
	return out
}

// DefaultCatalog returns the City Hospital menu. It panics only if the
// embedded table is inconsistent, which the tests guard against.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog("City Hospital", NumericRange{Min: 1, Max: 13},
		[]int{CodeServices, CodeMedication, CodeAdvice}, defaultCategories())
	if err != nil {
		panic(fmt.Sprintf("menu: default catalog: %v", err))
	}
	return c
}

func defaultCategories() []Category {
	return []Category{
		// Symptoms (typed as 1–13)
		{
			Code: 1, Title: "🤒 Fever",
			Keywords: []string{"fever", "temperature", "feverish"},
			Advice: []string{
				"Rest and drink plenty of fluids.",
				"Paracetamol 500–1000 mg every 4–6h (max 4000 mg/day) can bring the temperature down.",
				"Dress lightly and keep the room cool.",
			},
			Caution: "⚠️ See a doctor if the fever lasts more than 3 days or goes above 39.5°C.",
		},
		{
			Code: 2, Title: "😷 Cough",
			Keywords: []string{"cough", "coughing"},
			Advice: []string{
				"Drink warm fluids such as tea with honey.",
				"Avoid smoke and dusty places.",
				"Steam inhalation can loosen mucus.",
			},
			Caution: "⚠️ See a doctor if the cough lasts over 2 weeks or you cough up blood.",
		},
		{
			Code: 3, Title: "🤕 Headache",
			Keywords: []string{"headache", "migraine", "head pain"},
			Advice: []string{
				"Rest in a quiet, dark room.",
				"Drink water; dehydration is a common cause.",
				"Paracetamol or ibuprofen may help.",
			},
			Caution: "⚠️ Seek care at once for a sudden severe headache, stiff neck or confusion.",
		},
		{
			Code: 4, Title: "🤧 Cold & Flu",
			Keywords: []string{"cold", "flu", "runny nose", "blocked nose"},
			Advice: []string{
				"Rest and keep warm.",
				"Drink plenty of fluids.",
				"Saline nasal spray can ease congestion.",
			},
			Caution: "⚠️ See a doctor if symptoms last over 10 days or breathing gets difficult.",
		},
		{
			Code: 5, Title: "🗣 Sore Throat",
			Keywords: []string{"sore throat", "throat"},
			Advice: []string{
				"Gargle with warm salt water several times a day.",
				"Drink warm fluids and suck on lozenges.",
			},
			Caution: "⚠️ See a doctor if you cannot swallow or have a high fever.",
		},
		{
			Code: 6, Title: "🥶 Body Aches & Chills",
			// "cold" is also a keyword of 4; the lower code wins.
			Keywords: []string{"body ache", "body pain", "chills", "cold"},
			Advice: []string{
				"Rest and stay warm.",
				"Paracetamol can relieve aches.",
				"Drink plenty of fluids.",
			},
			Caution: "⚠️ See a doctor if aches come with a rash, stiff neck or high fever.",
		},
		{
			Code: 7, Title: "🤢 Stomach Ache",
			Keywords: []string{"stomach", "abdominal", "tummy", "belly"},
			Advice: []string{
				"Eat light, bland food and avoid spicy or fatty meals.",
				"Sip water regularly.",
				"A warm compress on the abdomen may help.",
			},
			Caution: "⚠️ Seek care for severe or persistent pain, or pain with vomiting blood.",
		},
		{
			Code: 8, Title: "🚽 Diarrhea",
			Keywords: []string{"diarrhea", "diarrhoea", "loose motion"},
			Advice: []string{
				"Drink oral rehydration solution (ORS) after each loose stool.",
				"Eat bananas, rice, toast and other bland food.",
				"Wash hands often.",
			},
			Caution: "⚠️ See a doctor if it lasts over 2 days or there is blood in the stool.",
		},
		{
			Code: 9, Title: "🤮 Nausea & Vomiting",
			Keywords: []string{"vomit", "nausea", "throwing up"},
			Advice: []string{
				"Take small sips of water or ORS.",
				"Avoid solid food for a few hours, then eat light meals.",
			},
			Caution: "⚠️ Seek care if you cannot keep fluids down for 24 hours.",
		},
		{
			Code: 10, Title: "🔴 Skin Rash",
			Keywords: []string{"rash", "itchy", "itching", "hives"},
			Advice: []string{
				"Keep the area clean and dry.",
				"Avoid scratching; a cool compress can calm itching.",
				"Calamine lotion or an antihistamine may help.",
			},
			Caution: "⚠️ Seek care at once if the rash comes with swelling of the face or trouble breathing.",
		},
		{
			Code: 11, Title: "💢 Back Pain",
			Keywords: []string{"back pain", "backache", "lower back"},
			Advice: []string{
				"Keep gently active; avoid long bed rest.",
				"Use a warm compress or heating pad.",
				"Ibuprofen may relieve pain if you can take it.",
			},
			Caution: "⚠️ Seek care for numbness, weakness in the legs or loss of bladder control.",
		},
		{
			Code: 12, Title: "🦷 Toothache",
			Keywords: []string{"tooth", "teeth", "dental"},
			Advice: []string{
				"Rinse with warm salt water.",
				"Paracetamol or ibuprofen can ease the pain.",
				"Avoid very hot, cold or sweet food.",
			},
			Caution: "⚠️ See a dentist soon, especially if there is swelling or fever.",
		},
		{
			Code: 13, Title: "😴 Insomnia",
			Keywords: []string{"insomnia", "can't sleep", "sleep"},
			Advice: []string{
				"Keep a regular sleep schedule.",
				"Avoid caffeine and screens before bed.",
				"Keep the bedroom dark, quiet and cool.",
			},
			Caution: "⚠️ See a doctor if poor sleep lasts several weeks.",
		},

		// Hospital services
		{
			Code: CodeServices, Title: "🏥 Hospital Services", Description: "View hospital departments",
			Keywords: []string{"services", "service", "department"},
			Children: []int{101, 102, 103, 104, 105, 106, 107, 108},
			Prompt: &Prompt{
				Header:       "🏥 Hospital Services",
				Body:         "Please choose a department:",
				ButtonText:   "Select Service",
				SectionTitle: "Departments",
			},
		},
		{
			Code: 101, Title: "🚨 Emergency Care",
			Keywords: []string{"emergency care", "casualty"},
			Advice:   []string{"24/7 emergency medical services."},
			Caution:  "Go straight to the emergency entrance; no appointment needed.",
		},
		{
			Code: 102, Title: "❤ Cardiology",
			Keywords: []string{"cardiology", "cardiologist", "cardiac"},
			Advice:   []string{"Heart and cardiovascular care."},
			Caution:  "Book at the outpatient desk or call reception.",
		},
		{
			Code: 103, Title: "👶 Pediatrics",
			Keywords: []string{"pediatrics", "paediatrics", "pediatrician", "child doctor"},
			Advice:   []string{"Medical care for children."},
			Caution:  "Book at the outpatient desk or call reception.",
		},
		{
			Code: 104, Title: "🦴 Orthopedics",
			Keywords: []string{"orthopedics", "orthopaedics", "fracture", "bone"},
			Advice:   []string{"Bone and joint treatment."},
			Caution:  "Book at the outpatient desk or call reception.",
		},
		{
			Code: 105, Title: "🧴 Dermatology",
			Keywords: []string{"dermatology", "dermatologist", "skin doctor"},
			Advice:   []string{"Skin and hair care."},
			Caution:  "Book at the outpatient desk or call reception.",
		},
		{
			Code: 106, Title: "👩 Gynecology",
			Keywords: []string{"gynecology", "gynaecology", "gynecologist", "women's health"},
			Advice:   []string{"Women's health services."},
			Caution:  "Book at the outpatient desk or call reception.",
		},
		{
			Code: 107, Title: "🧠 Neurology",
			Keywords: []string{"neurology", "neurologist", "nerve"},
			Advice:   []string{"Brain and nervous system care."},
			Caution:  "Book at the outpatient desk or call reception.",
		},
		{
			Code: 108, Title: "🎗 Oncology",
			Keywords: []string{"oncology", "oncologist", "cancer"},
			Advice:   []string{"Cancer treatment and care."},
			Caution:  "Book at the outpatient desk or call reception.",
		},

		// General medication
		{
			Code: CodeMedication, Title: "💊 General Medication", Description: "Common medicines & usage",
			Keywords: []string{"medication", "medicine", "pharmacy"},
			Children: []int{201, 202, 203, 204},
			Prompt: &Prompt{
				Header:       "💊 General Medication",
				Body:         "Select a common medicine to learn about it:",
				ButtonText:   "Select Medicine",
				SectionTitle: "Medicines",
			},
		},
		{
			Code: 201, Title: "💊 Paracetamol", Description: "Acetaminophen",
			Keywords: []string{"paracetamol", "acetaminophen", "panadol", "tylenol"},
			Advice: []string{
				"Purpose: Pain relief, fever reduction.",
				"Dosage: Adults 500–1000 mg every 4–6h (max 4000 mg/day). Children 10–15 mg/kg.",
			},
			Caution: "Precautions: Avoid in liver disease; do not exceed max dose.",
		},
		{
			Code: 202, Title: "💊 Ibuprofen",
			Keywords: []string{"ibuprofen", "advil", "brufen", "nurofen"},
			Advice: []string{
				"Purpose: Anti-inflammatory, pain relief, fever reduction.",
				"Dosage: Adults 200–400 mg every 4–6h (max 2400 mg/day); with food.",
			},
			Caution: "Precautions: Avoid with ulcers/heart issues and in late pregnancy; may irritate the stomach.",
		},
		{
			Code: 203, Title: "💊 Antibiotics",
			Keywords: []string{"antibiotic", "amoxicillin"},
			Advice: []string{
				"Purpose: Treat bacterial infections.",
				"Important: Prescription required; complete the full course.",
			},
			Caution: "Precautions: Not for viral infections; follow your doctor's directions.",
		},
		{
			Code: 204, Title: "💊 Antacids",
			Keywords: []string{"antacid", "heartburn", "acidity", "indigestion"},
			Advice: []string{
				"Purpose: Relief from heartburn/acid indigestion.",
				"Dosage: Adults 1–2 tablets as needed (max per label).",
			},
			Caution: "Precautions: Limit to short-term use; may interact with other medicines.",
		},

		// Doctor's advice
		{
			Code: CodeAdvice, Title: "🩺 Doctor's Advice", Description: "Get advice for symptoms",
			Keywords: []string{"advice", "doctor"},
			Children: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, CodeMoreSymptoms},
			Prompt: &Prompt{
				Header:       "🩺 Doctor's Advice",
				Body:         "Select a symptom from the list (1–13):",
				ButtonText:   "Select Symptom",
				SectionTitle: "Symptoms",
			},
		},
		{
			Code: CodeMoreSymptoms, Title: "➕ More Symptoms", Description: "Symptoms 10–13",
			Keywords: []string{"more symptoms", "other symptoms"},
			Children: []int{10, 11, 12, 13},
			Prompt: &Prompt{
				Header:       "🩺 More Symptoms",
				Body:         "Select a symptom from the list:",
				ButtonText:   "Select Symptom",
				SectionTitle: "Symptoms",
			},
		},
	}
}

package anonymize

// Replacement names. A patient name is drawn as "last^first^anonymous".
var (
	femaleFirstNames = []string{
		"Arwen", "Anna", "Amy", "Betty", "Christine", "Deirdre", "Emma", "Eowyn", "Elspeth",
		"Felicity", "Gertrude", "Helga", "Ingrid", "Juliet", "Karin", "Kegan", "Laura", "Lisbet",
		"Maria", "Nadia", "Ophelia", "Patience", "Questa", "Ruth", "Shannon", "Tanya", "Ursula",
		"Viora", "Wilma", "Xena", "Yelena", "Zoie", "Enisa", "Annette", "Gunhild",
	}

	maleFirstNames = []string{
		"Aaron", "Andrew", "Bill", "Björn", "Callum", "Darragh", "Don", "Erik", "Frank", "Frodo",
		"George", "Harley", "Igor", "Jeremiah", "Joe", "John", "Kalevi", "Larry", "Mikko", "Marc",
		"Mohannad", "Mohammed", "Niko", "Olin", "Peter", "Per", "Paul", "Quinn", "Rafe", "Rob",
		"Sebastian", "Scott", "Sean", "Thor", "Ulf", "Vilhelm", "William", "Xavier", "Yngve",
		"Zerah", "Gunter", "Bo",
	}

	lastNames = []string{
		"Smith", "Johnson", "Williams", "Wallace", "Wiik", "Cowan", "Hussain", "Boccanfuso",
		"Mohan", "Dennison", "Morley", "Lipton", "Dobbs", "Bernard", "Lowe", "Brown", "Ristovik",
		"Tran", "Allen", "Young", "White", "Miller", "Davis", "Wright", "Hill", "Underhill",
		"Green", "Richardson", "Coleman", "Simmons", "Alexander", "Russell", "Baggins",
		"Undomiel", "Took", "Zeilinger", "Yang",
	}
)

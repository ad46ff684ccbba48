package entity

// BloodGroup is one of the eight ABO/Rh combinations
type BloodGroup string

const (
	BloodGroupAPositive  BloodGroup = "A+"
	BloodGroupANegative  BloodGroup = "A-"
	BloodGroupBPositive  BloodGroup = "B+"
	BloodGroupBNegative  BloodGroup = "B-"
	BloodGroupABPositive BloodGroup = "AB+"
	BloodGroupABNegative BloodGroup = "AB-"
	BloodGroupOPositive  BloodGroup = "O+"
	BloodGroupONegative  BloodGroup = "O-"
)

// BloodGroups lists every group in display order
var BloodGroups = []BloodGroup{
	BloodGroupAPositive,
	BloodGroupANegative,
	BloodGroupBPositive,
	BloodGroupBNegative,
	BloodGroupABPositive,
	BloodGroupABNegative,
	BloodGroupOPositive,
	BloodGroupONegative,
}

// IsValid checks if the blood group is one of the known combinations
func (g BloodGroup) IsValid() bool {
	for _, known := range BloodGroups {
		if g == known {
			return true
		}
	}
	return false
}

func (g BloodGroup) String() string {
	return string(g)
}

package taxonomy

// PetType es la raíz de la clasificación (貓貓, 狗狗, 小鳥...).
type PetType struct {
	ID      string
	Name    string
	Species []PetSpecies // ordenadas por alta
}

// PetSpecies pertenece a exactamente un PetType.
type PetSpecies struct {
	ID        string
	Name      string
	PetTypeID string
}

const MaxNameLen = 50

// DefaultCatalog es la taxonomía inicial que instala SeedDefaults.
var DefaultCatalog = []struct {
	Type    string
	Species []string
}{
	{Type: "貓貓", Species: []string{"米克斯貓", "波斯貓", "暹羅貓", "英國短毛貓"}},
	{Type: "狗狗", Species: []string{"米克斯犬", "哈士奇", "吉娃娃", "柴犬"}},
	{Type: "小鳥", Species: []string{"鸚鵡", "文鳥"}},
}

package importer_test

import (
	"strings"

	"github.com/MrJamesThe3rd/haulage/internal/catalog"
)

const ledgerCSV = `Account,Type,Date,Debit,Credit,Remarks,RR No.
"1234 - Hauling Income - Trailer NGS-4359",Hauling,03/05/2024,,"9,000.00","LRO: 140Liters Fuel and Oil Francis Ariglado:PAG-ILIGAN: Strike/Cement:",RR-1
"5678 - Fuel and Oil - Trailer NGS-4359",Diesel,03/05/2024,1500,,fuel top up,
"9999 - Mystery Account",Misc,03/05/2024,10,,,
"1111 - Fuel and Oil",Beginning Balance,03/01/2024,500,,,
Total for Fuel and Oil,,,2000,,,
"5678 - Fuel and Oil - Trailer NGS-4359",Diesel again,03/05/2024,200,,,
`

func testSnapshot() catalog.Snapshot {
	trailer := catalog.TruckType{ID: 7, Name: "Trailer"}

	return catalog.Snapshot{
		Drivers:      []catalog.Driver{{ID: 1, Name: "Francis Ariglado"}, {ID: 9, Name: "Romel Bantilan"}},
		Routes:       []catalog.Route{{ID: 2, Name: "PAG-ILIGAN"}, {ID: 10, Name: "CDO-LNO"}},
		LoadTypes:    []catalog.LoadType{{ID: 3, Name: "Strike"}, {ID: 4, Name: "Cement"}, {ID: 11, Name: "RH Holcim"}},
		TruckTypes:   []catalog.TruckType{trailer},
		AccountTypes: []catalog.AccountType{{ID: 5, Name: "Hauling Income"}, {ID: 6, Name: "Fuel and Oil"}},
		Trucks: []catalog.Truck{{
			ID:          8,
			PlateNumber: "NGS-4359",
			TruckTypeID: &trailer.ID,
			TruckType:   &trailer,
			Company:     "Northline",
		}},
	}
}

func testLookup() *catalog.Lookup {
	return catalog.NewLookup(testSnapshot(), nil)
}

func csvReader() *strings.Reader {
	return strings.NewReader(ledgerCSV)
}

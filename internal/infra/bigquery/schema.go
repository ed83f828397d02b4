package bigquery

// TableDef describes one warehouse or staging table. Columns is the DDL
// column list, shared by the provisioning command and by the swap tables
// used for atomic replacement.
type TableDef struct {
	Staging bool // lives in the staging dataset
	Name    string
	Columns string
}

const (
	stagingColumns = `invoice_id STRING NOT NULL,
		stock_code STRING NOT NULL,
		description STRING NOT NULL,
		quantity INT64 NOT NULL,
		invoice_date TIMESTAMP NOT NULL,
		unit_price NUMERIC NOT NULL,
		customer_code STRING NOT NULL,
		country STRING`

	productColumns = `product_id INT64 NOT NULL,
		stock_code STRING NOT NULL,
		description STRING NOT NULL`

	customerColumns = `customer_id INT64 NOT NULL,
		customer_code STRING NOT NULL,
		country STRING`

	dateColumns = `date_id INT64 NOT NULL,
		calendar_date DATE NOT NULL,
		year INT64 NOT NULL,
		month INT64 NOT NULL,
		day INT64 NOT NULL`

	factColumns = `invoice_id STRING NOT NULL,
		product_id INT64 NOT NULL,
		customer_id INT64 NOT NULL,
		date_id INT64 NOT NULL,
		quantity INT64 NOT NULL,
		unit_price NUMERIC NOT NULL,
		total_amount NUMERIC NOT NULL`

	loadRunsColumns = `run_id STRING NOT NULL,
		source_uri STRING,
		status STRING NOT NULL,
		started_ts TIMESTAMP NOT NULL,
		finished_ts TIMESTAMP,
		error_message STRING,
		raw_rows INT64,
		dropped_rows INT64,
		clean_rows INT64,
		product_rows INT64,
		customer_rows INT64,
		date_rows INT64,
		fact_rows INT64`
)

// Tables lists every table the ETL touches, in provisioning order.
var Tables = []TableDef{
	{Staging: true, Name: StagingTable, Columns: stagingColumns},
	{Staging: true, Name: LoadRunsTable, Columns: loadRunsColumns},
	{Staging: false, Name: ProductTable, Columns: productColumns},
	{Staging: false, Name: CustomerTable, Columns: customerColumns},
	{Staging: false, Name: DateTable, Columns: dateColumns},
	{Staging: false, Name: FactTable, Columns: factColumns},
}

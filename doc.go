/*
Package hivejdbc connects to HiveServer2 from a validated set of connection
arguments.

Arguments are resolved against the schema returned by Options, the process
runtime is configured for Kerberos and logging, the server is probed and a
hive2 connection string is built and handed to a registered driver entry point:

	conn, err := hivejdbc.Connect(ctx, []interface{}{"hs2.example.com", "sales"}, hivejdbc.Arguments{
		"user":     "etl",
		"password": "secret",
	})
	if err != nil {
		return err
	}
	defer conn.Close()

	cur := conn.Cursor().(*hivejdbc.Cursor)
	if err := cur.Execute(ctx, "SELECT id, tags FROM events WHERE day = ?", "2024-01-01"); err != nil {
		return err
	}
	rows, err := cur.FetchAll()

Columns of type ARRAY, MAP and STRUCT are decoded from their JSON text into
[]interface{} and map[string]interface{} values. DECIMAL columns become
decimal.Decimal and DATE or TIMESTAMP columns become time.Time.

NewConnector exposes the same pipeline to database/sql:

	connector, err := hivejdbc.NewConnector(nil, hivejdbc.Arguments{"host": "hs2", "database": "default"})
	db := sql.OpenDB(connector)
*/
package hivejdbc

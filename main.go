// Package main is the entry point of the valve quoting back-office
package main

import (
	"github.com/valvedesk/quoting-backoffice/cmd"
)

//	@title						Valve Quoting Back-office API
//	@version					1.0
//	@description				Supplier quotes, bills and price record lifecycle for valve part procurement.
//	@BasePath					/api/v1
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and the access token.
func main() {
	cmd.Execute()
}

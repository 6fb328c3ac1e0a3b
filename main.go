package main

import "github.com/szulist/zabbix-proxy-dashboards/cmd"

func main() {
	cmd.Execute()
}

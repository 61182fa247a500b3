package testutil

// UplinkConfig is the smallest useful export: one trunk port.
const UplinkConfig = `interface ethernet 1/0/3
description 'uplink'
switchport mode trunk
switchport trunk allowed vlan add 10,20-22
exit
`

// StackConfig is a two-member stack export in the PowerConnect dialect,
// with VLAN interfaces, a LAG and its members.
const StackConfig = `!Current Configuration:
!System Description "PowerConnect 6248P, 3.3.9.1, VxWorks 6.5"
!System Software Version 3.3.9.1
!
configure
vlan database
vlan 10,20-22,100
exit
hostname "core-stack"
stack
member 1 2
member 2 2
exit

interface vlan 10
name "Servers"
exit
interface vlan 20
name "Voice"
exit
interface vlan 100
name "Mgmt"
exit

interface ethernet 1/g1
description 'server  rack 1'
switchport access vlan 10
exit
interface ethernet 1/g2
description 'phone'
switchport mode general
switchport general allowed vlan add 20 tagged
switchport general allowed vlan add 10
switchport general acceptable-frame-type tagged-only
exit
interface ethernet 1/xg1
channel-group 1 mode auto
description 'lag member a'
exit
interface ethernet 2/xg1
channel-group 1 mode auto
description 'lag member b'
exit

interface port-channel 1
description 'to-distribution'
switchport mode trunk
switchport trunk allowed vlan add 10,20-22
switchport trunk allowed vlan remove 22
exit
snmp-server community public ro
!
end
`
